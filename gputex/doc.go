// Package gputex is the GPU-resource-shaped reference fontatlas.TextureBackend,
// built on gogpu/wgpu/core and gogpu/gputypes. It mirrors the teacher
// codebase's internal/gpu texture wrapper: width/height/format and an
// idempotent release flag are real, but no device texture is allocated and
// the actual device-queue upload is a stub (the source file this is grounded on has the same TODO-commented
// wgpu calls instead of a working upload path). Build with the nogpu tag to
// exclude it, e.g. when vendoring gogpu/wgpu is not desired.
package gputex
