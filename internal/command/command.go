// Package command maps command identifiers to the commands pastejson knows.
package command

import (
	"fmt"
	"strings"

	"github.com/mcncl/pastejson/internal/errors"
)

// Kind is a recognized command.
type Kind int

const (
	// PasteJSONAsCode pastes clipboard JSON as type declarations.
	PasteJSONAsCode Kind = iota + 1
)

// DefaultIdentifier is the identifier hosts use for PasteJSONAsCode.
const DefaultIdentifier = "com.mcncl.pastejson.PasteJSONAsCode"

var names = map[string]Kind{
	"PasteJSONAsCode": PasteJSONAsCode,
}

func (k Kind) String() string {
	for name, kind := range names {
		if kind == k {
			return name
		}
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Lookup resolves a reverse-domain identifier such as
// "com.example.pastejson.PasteJSONAsCode" by its last component. A bare
// name is accepted too.
func Lookup(identifier string) (Kind, error) {
	name := identifier
	if i := strings.LastIndex(identifier, "."); i >= 0 {
		name = identifier[i+1:]
	}
	if kind, ok := names[name]; ok {
		return kind, nil
	}
	return 0, errors.NewCommandError(fmt.Sprintf("unknown command %q", identifier), errors.ErrUnrecognizedCommand)
}
