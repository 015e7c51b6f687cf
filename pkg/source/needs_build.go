// SPDX-License-Identifier: MPL-2.0

package source

// NeedsBuild reports whether code must be built before it can be launched.
//
// Archives run as they are, JShell fragments are interpreted directly, and both
// the forced-jsh and interactive modes hand the code to JShell, so none of them
// needs a build. Everything else does. The decision looks only at the backing
// file's suffix and the context flags.
func NeedsBuild(code Code, ctx *RunContext) bool {
	ctx = ctx.orZero()
	return !(code.IsJar() || code.IsJShell() || ctx.ForceJsh || ctx.Interactive)
}

// usesJShell reports whether code is launched through jshell rather than java.
func usesJShell(code Code, ctx *RunContext) bool {
	ctx = ctx.orZero()
	return code.IsJShell() || ctx.ForceJsh || ctx.Interactive
}
