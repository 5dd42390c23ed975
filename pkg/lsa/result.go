package lsa

import (
	"errors"

	"github.com/ineffectivecoder/LogonGooser/internal/encoding"
	"github.com/ineffectivecoder/LogonGooser/pkg/msv1_0"
	"github.com/ineffectivecoder/LogonGooser/pkg/ntstatus"
)

// ErrNoProfile is returned when a package returned no profile buffer
var ErrNoProfile = errors.New("no profile buffer returned")

// LogonResult holds the outputs of LsaLogonUser
type LogonResult struct {
	Token   Token
	LogonID LUID
	Quotas  QuotaLimits
	// SubStatus is set by packages to refine a failure
	SubStatus ntstatus.NTStatus
	// Profile is a copy of the returned profile buffer, which lived at
	// ProfileBase in our address space before it was freed.
	Profile     []byte
	ProfileBase uint64
}

// ProfileType returns the message type tag of the profile buffer
func (r *LogonResult) ProfileType() (msv1_0.MessageType, error) {
	if len(r.Profile) < 4 {
		return 0, ErrNoProfile
	}
	return msv1_0.MessageType(encoding.Uint32LE(r.Profile)), nil
}

// InteractiveProfile decodes the profile as MSV1_0_INTERACTIVE_PROFILE
func (r *LogonResult) InteractiveProfile() (*msv1_0.InteractiveProfile, error) {
	if len(r.Profile) == 0 {
		return nil, ErrNoProfile
	}
	return msv1_0.NativeLayout.DecodeInteractiveProfile(r.Profile, r.ProfileBase)
}
