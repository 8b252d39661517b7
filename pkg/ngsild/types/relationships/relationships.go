package relationships

import (
	"fmt"

	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types"
)

// RelationshipImpl carries the envelope discriminator shared by all
// relationship variants.
type RelationshipImpl struct {
	Type string `json:"type"`
}

// SingleObjectRelationship points at exactly one entity, such as a
// sensor's refDevice.
type SingleObjectRelationship struct {
	RelationshipImpl
	Obj string `json:"object"`
}

func NewSingleObjectRelationship(object string) *SingleObjectRelationship {
	return &SingleObjectRelationship{
		RelationshipImpl: RelationshipImpl{Type: "Relationship"},
		Obj:              object,
	}
}

func (sor *SingleObjectRelationship) Type() string {
	return sor.RelationshipImpl.Type
}

func (sor *SingleObjectRelationship) Object() any {
	return sor.Obj
}

// MultiObjectRelationship points at a set of entities under a single
// attribute name.
type MultiObjectRelationship struct {
	RelationshipImpl
	Obj []string `json:"object"`
}

func NewMultiObjectRelationship(objects []string) *MultiObjectRelationship {
	return &MultiObjectRelationship{
		RelationshipImpl: RelationshipImpl{Type: "Relationship"},
		Obj:              objects,
	}
}

func (mor *MultiObjectRelationship) Type() string {
	return mor.RelationshipImpl.Type
}

func (mor *MultiObjectRelationship) Object() any {
	return mor.Obj
}

// UnmarshalR turns a decoded relationship body into the variant matching
// its object shape. Objects that are neither a string nor an array of
// strings are rejected.
func UnmarshalR(body map[string]any) (types.Relationship, error) {
	object, ok := body["object"]
	if !ok {
		return nil, fmt.Errorf("relationships without an object attribute are not supported")
	}

	switch obj := object.(type) {
	case string:
		return NewSingleObjectRelationship(obj), nil
	case []any:
		objects := make([]string, 0, len(obj))
		for _, o := range obj {
			if str, ok := o.(string); ok {
				objects = append(objects, str)
			}
		}
		return NewMultiObjectRelationship(objects), nil
	default:
		return nil, fmt.Errorf("relationship objects of type %T are not supported", object)
	}
}
