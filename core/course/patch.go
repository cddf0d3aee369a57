package course

import (
	"bytes"
	"encoding/json"
	"fmt"

	"courselibrary/validate"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// PatchError marks a patch document that could not be applied at all: a
// malformed operation list, a path that does not exist, a failed test
// op. Distinct from a semantic validation failure, though both end up as
// the same response status.
type PatchError struct {
	Err error
}

func (e *PatchError) Error() string { return e.Err.Error() }

func (e *PatchError) Unwrap() error { return e.Err }

// applyPatch runs an RFC 6902 operation sequence against the given
// starting shape and validates the outcome. Both the replace branch
// (initial populated from the stored course) and the create branch
// (zero-valued initial) funnel through here, so the validation rules
// cannot drift between them. Nothing is written anywhere; callers only
// touch the store after this returns cleanly.
func applyPatch(doc []byte, initial CourseUp) (CourseUp, error) {
	patch, err := jsonpatch.DecodePatch(doc)
	if err != nil {
		return CourseUp{}, &PatchError{Err: fmt.Errorf("decoding patch document: %w", err)}
	}

	current, err := json.Marshal(initial)
	if err != nil {
		return CourseUp{}, fmt.Errorf("marshaling course shape: %w", err)
	}

	patched, err := patch.Apply(current)
	if err != nil {
		return CourseUp{}, &PatchError{Err: fmt.Errorf("applying patch: %w", err)}
	}

	// An operation addressing a member outside the course shape (the id,
	// the owner, anything unknown) must fail, not vanish in the round
	// trip back to the struct.
	dec := json.NewDecoder(bytes.NewReader(patched))
	dec.DisallowUnknownFields()

	var out CourseUp
	if err := dec.Decode(&out); err != nil {
		return CourseUp{}, &PatchError{Err: fmt.Errorf("patched document does not fit the course shape: %w", err)}
	}

	if err := validate.Check(out); err != nil {
		return CourseUp{}, err
	}

	return out, nil
}
