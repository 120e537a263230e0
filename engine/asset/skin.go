package asset

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrSkinMismatch is returned when a skin's joint list and inverse bind matrices disagree.
var ErrSkinMismatch = errors.New("skin joint count does not match inverse bind matrix count")

// SkinAsset binds a mesh to a set of joint nodes.
type SkinAsset struct {
	ID                  Index
	InverseBindMatrices []mgl32.Mat4
	JointIDs            []Index
	// Skeleton optionally names the common root of the joint hierarchy.
	Skeleton *Index
}

// Validate checks the structural invariant len(JointIDs) == len(InverseBindMatrices).
//
// Returns:
//   - error: ErrSkinMismatch wrapped with the skin id and counts, or nil
func (s *SkinAsset) Validate() error {
	if len(s.JointIDs) != len(s.InverseBindMatrices) {
		return fmt.Errorf("skin %s: %d joints, %d matrices: %w", s.ID, len(s.JointIDs), len(s.InverseBindMatrices), ErrSkinMismatch)
	}
	return nil
}

// JointIndex returns the position of a node inside the skin's joint list.
func (s *SkinAsset) JointIndex(node Index) (int, bool) {
	for i, id := range s.JointIDs {
		if id == node {
			return i, true
		}
	}
	return 0, false
}
