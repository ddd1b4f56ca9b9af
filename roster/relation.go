package roster

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Dosada05/archery-tournament/models"
	"github.com/Dosada05/archery-tournament/scoring"
)

// relation is a joined record that may arrive as a bare value, a single
// object or a list of objects depending on the join that produced it.
type relation struct {
	ID   string
	Name string
	set  bool
}

type relationObject struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

func (r relation) value() string {
	if r.ID != "" {
		return r.ID
	}
	return r.Name
}

func (r *relation) fromObjects(objs []relationObject) error {
	switch len(objs) {
	case 0:
		*r = relation{}
		return nil
	case 1:
		*r = relation{ID: strings.TrimSpace(objs[0].ID), Name: strings.TrimSpace(objs[0].Name), set: true}
		return nil
	default:
		return fmt.Errorf("%w: %d entries", ErrAmbiguousRelation, len(objs))
	}
}

func (r relation) MarshalYAML() (interface{}, error) {
	if !r.set {
		return nil, nil
	}
	return r.value(), nil
}

func (r relation) MarshalJSON() ([]byte, error) {
	if !r.set {
		return []byte("null"), nil
	}
	return json.Marshal(r.value())
}

func (r *relation) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			*r = relation{}
			return nil
		}
		v := strings.TrimSpace(node.Value)
		*r = relation{ID: v, Name: v, set: v != ""}
		return nil
	case yaml.MappingNode:
		var obj relationObject
		if err := node.Decode(&obj); err != nil {
			return err
		}
		return r.fromObjects([]relationObject{obj})
	case yaml.SequenceNode:
		var objs []relationObject
		if err := node.Decode(&objs); err != nil {
			return err
		}
		return r.fromObjects(objs)
	default:
		return fmt.Errorf("line %d: unexpected relation node", node.Line)
	}
}

func (r *relation) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = relation{}
		return nil
	}
	switch data[0] {
	case '{':
		var obj relationObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		return r.fromObjects([]relationObject{obj})
	case '[':
		var objs []relationObject
		if err := json.Unmarshal(data, &objs); err != nil {
			return err
		}
		return r.fromObjects(objs)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		*r = relation{ID: s, Name: s, set: s != ""}
		return nil
	default:
		// числовые идентификаторы
		v := string(data)
		*r = relation{ID: v, Name: v, set: true}
		return nil
	}
}

// arrowCell is one arrow as written on a score sheet: a number, X, M or
// null for an arrow not shot yet.
type arrowCell struct {
	value *int
}

func (c *arrowCell) parse(raw string) error {
	v, err := scoring.ParseArrow(raw)
	if err != nil {
		return err
	}
	c.value = v
	return nil
}

func (c *arrowCell) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: arrow must be a scalar", node.Line)
	}
	if node.ShortTag() == "!!null" {
		c.value = nil
		return nil
	}
	return c.parse(node.Value)
}

func (c arrowCell) MarshalYAML() (interface{}, error) {
	if c.value == nil {
		return nil, nil
	}
	return scoring.FormatArrow(c.value), nil
}

func (c *arrowCell) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		c.value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return c.parse(s)
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", scoring.ErrInvalidArrowValue, data)
	}
	if !scoring.IsValid(n) {
		return fmt.Errorf("%w: %d", scoring.ErrInvalidArrowValue, n)
	}
	c.value = &n
	return nil
}

func (c arrowCell) MarshalJSON() ([]byte, error) {
	if c.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(scoring.FormatArrow(c.value))
}

var genderAliases = map[string]models.Gender{
	"m":      models.GenderMale,
	"male":   models.GenderMale,
	"men":    models.GenderMale,
	"f":      models.GenderFemale,
	"w":      models.GenderFemale,
	"female": models.GenderFemale,
	"women":  models.GenderFemale,
}

func normalizeGender(raw string) (models.Gender, error) {
	g, ok := genderAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidGender, raw)
	}
	return g, nil
}

func normalizeCategory(raw string) (models.AgeCategory, error) {
	c := models.AgeCategory(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, raw)
	}
	return c, nil
}
