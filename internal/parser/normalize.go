package parser

import (
	"fmt"

	"github.com/mcncl/pastejson/internal/errors"
	"github.com/mcncl/pastejson/internal/models"
)

// Normalize reduces a parsed document to the single object schema that
// drives generation.
//
// An object root is returned as is. For an array root the keys of every
// object element are merged into one object; when several elements carry
// the same key the value of the last element wins. Elements that are not
// objects are ignored, so an array without objects yields an empty schema.
// Any other root is rejected.
func Normalize(ir models.IntermediateRepresentation) (models.JSONObject, error) {
	switch root := ir.Root.(type) {
	case models.JSONObject:
		return root, nil
	case models.JSONArray:
		return UnionObjectKeys(root), nil
	case nil:
		return nil, errors.NewRootError("JSON root is null", errors.ErrInvalidRoot)
	default:
		return nil, errors.NewRootError(fmt.Sprintf("JSON root is a %s", describe(root)), errors.ErrInvalidRoot)
	}
}

// UnionObjectKeys merges the keys of all object elements of arr. The merge
// is shallow and the last element carrying a key decides its value.
func UnionObjectKeys(arr models.JSONArray) models.JSONObject {
	union := make(models.JSONObject)
	for _, element := range arr {
		obj, ok := element.(models.JSONObject)
		if !ok {
			continue
		}
		for key, value := range obj {
			union[key] = value
		}
	}
	return union
}

func describe(v models.JSONValue) string {
	switch v.(type) {
	case bool:
		return "boolean"
	case string:
		return "string"
	default:
		return "number"
	}
}
