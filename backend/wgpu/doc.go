// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu implements sandbox.FrameDevice on the gogpu/wgpu HAL.
//
// WGSL programs are compiled to SPIR-V with naga. Frames are recorded
// between BeginFrame and EndFrame, rendered in a single 4x MSAA pass and
// read back into an image. Render pipelines are cached per shader kind,
// topology and lighting.
//
// Points and lines rasterize at 1 pixel; PointSize and LineWidth of the
// frame target are ignored.
//
// Build with the nogpu tag to leave the backend out.
package wgpu
