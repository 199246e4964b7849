// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package proxytypes

// Universal methods are the object-level methods every proxy answers, even
// when the parent does not declare them. The capsule supplies identity based
// defaults for them (see defaults.go).
var (
	SigHash     = MustNewSignature("Hash")
	SigEqual    = MustNewSignature("Equal", anyType)
	SigString   = MustNewSignature("String")
	SigGoString = MustNewSignature("GoString")
	SigClone    = MustNewSignature("Clone")
)

var universalMethods = map[string]*Signature{
	SigHash.Key():     SigHash,
	SigEqual.Key():    SigEqual,
	SigString.Key():   SigString,
	SigGoString.Key(): SigGoString,
	SigClone.Key():    SigClone,
}

// IsUniversalMethod reports whether sig is one of the universal methods.
func IsUniversalMethod(sig *Signature) bool {
	if sig == nil {
		return false
	}
	_, ok := universalMethods[sig.Key()]
	return ok
}

// UniversalMethods returns the universal catalog.
func UniversalMethods() []*Signature {
	return []*Signature{SigHash, SigEqual, SigString, SigGoString, SigClone}
}
