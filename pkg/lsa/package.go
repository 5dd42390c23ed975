package lsa

import (
	"fmt"
	"strings"

	"github.com/ineffectivecoder/LogonGooser/pkg/msv1_0"
)

// SECPKG_FLAG_* capability bits
const (
	FlagIntegrity       uint32 = 0x00000001
	FlagPrivacy         uint32 = 0x00000002
	FlagTokenOnly       uint32 = 0x00000004
	FlagDatagram        uint32 = 0x00000008
	FlagConnection      uint32 = 0x00000010
	FlagMultiRequired   uint32 = 0x00000020
	FlagClientOnly      uint32 = 0x00000040
	FlagExtendedError   uint32 = 0x00000080
	FlagImpersonation   uint32 = 0x00000100
	FlagAcceptWin32Name uint32 = 0x00000200
	FlagStream          uint32 = 0x00000400
	FlagNegotiable      uint32 = 0x00000800
	FlagGSSCompatible   uint32 = 0x00001000
	FlagLogon           uint32 = 0x00002000
	FlagASCIIBuffers    uint32 = 0x00004000
	FlagFragment        uint32 = 0x00008000
	FlagMutualAuth      uint32 = 0x00010000
	FlagDelegation      uint32 = 0x00020000
)

// IDNone is SECPKG_ID_NONE, the RPC ID of packages without one
const IDNone uint16 = 0xFFFF

var capabilityNames = []struct {
	flag uint32
	name string
}{
	{FlagIntegrity, "INTEGRITY"},
	{FlagPrivacy, "PRIVACY"},
	{FlagTokenOnly, "TOKEN_ONLY"},
	{FlagDatagram, "DATAGRAM"},
	{FlagConnection, "CONNECTION"},
	{FlagMultiRequired, "MULTI_REQUIRED"},
	{FlagClientOnly, "CLIENT_ONLY"},
	{FlagExtendedError, "EXTENDED_ERROR"},
	{FlagImpersonation, "IMPERSONATION"},
	{FlagAcceptWin32Name, "ACCEPT_WIN32_NAME"},
	{FlagStream, "STREAM"},
	{FlagNegotiable, "NEGOTIABLE"},
	{FlagGSSCompatible, "GSS_COMPATIBLE"},
	{FlagLogon, "LOGON"},
	{FlagASCIIBuffers, "ASCII_BUFFERS"},
	{FlagFragment, "FRAGMENT"},
	{FlagMutualAuth, "MUTUAL_AUTH"},
	{FlagDelegation, "DELEGATION"},
}

// CapabilityNames returns the names of the bits set in caps. Unknown bits
// are reported as one hex value at the end.
func CapabilityNames(caps uint32) []string {
	var names []string
	for _, c := range capabilityNames {
		if caps&c.flag != 0 {
			names = append(names, c.name)
			caps &^= c.flag
		}
	}
	if caps != 0 {
		names = append(names, fmt.Sprintf("0x%X", caps))
	}
	return names
}

// PackageInfo describes an installed security package (SecPkgInfoW)
type PackageInfo struct {
	Capabilities uint32
	Version      uint16
	RPCID        uint16
	MaxToken     uint32
	Name         string
	Comment      string
}

func (p PackageInfo) String() string {
	return fmt.Sprintf("%s (version %d, rpcid %d, maxtoken %d) [%s] %s",
		p.Name, p.Version, p.RPCID, p.MaxToken, strings.Join(CapabilityNames(p.Capabilities), "|"), p.Comment)
}

// PredefinedPackages are the authentication packages every system has
var PredefinedPackages = []string{
	msv1_0.PackageNegotiate,
	msv1_0.PackageKerberos,
	msv1_0.PackageMSV1_0,
}

// LogonRequest holds the inputs of LsaLogonUser
type LogonRequest struct {
	// Package is the authentication package name
	Package string
	// OriginName identifies the caller in audit records
	OriginName string
	LogonType  LogonType
	Domain     string
	User       string
	Password   string
	// SourceName is stamped on the token, DefaultTokenSource when empty
	SourceName string
}

// Validate checks the request before any buffer is built
func (r *LogonRequest) Validate() error {
	if r.User == "" {
		return fmt.Errorf("user name is required")
	}
	if r.Package == "" {
		r.Package = msv1_0.PackageMSV1_0
	}
	if r.LogonType == UndefinedLogonType {
		r.LogonType = Interactive
	}
	if r.SourceName == "" {
		r.SourceName = DefaultTokenSource
	}
	if r.OriginName == "" {
		r.OriginName = r.SourceName
	}
	_, err := NewTokenSource(r.SourceName)
	return err
}

// SubmitBuffer builds the interactive logon buffer for the request
func (r *LogonRequest) SubmitBuffer() ([]byte, error) {
	return msv1_0.NativeLayout.EncodeInteractiveLogon(msv1_0.InteractiveLogon{
		MessageType:     msv1_0.SubmitTypeFor(r.Package),
		LogonDomainName: r.Domain,
		UserName:        r.User,
		Password:        r.Password,
	})
}
