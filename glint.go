// Package glint is a low-overhead, type-checked abstraction layer over a
// GL-style GPU command/resource API.
//
// The caller declares the shape of a rendering pipeline — vertex layout,
// uniform block layout, sampler bindings, output targets — and glint verifies
// once, at pipeline-construction time, that this shape matches what the
// compiled shader program actually expects. Binding errors that would
// otherwise surface as corrupted frames or silent driver failures become
// explicit construction-time errors instead.
//
// The flow is: link a program and reflect its interface (package shader),
// declare layouts (package layout), build a verified pipeline (package
// pipeline), allocate resources tagged with their layouts (package
// resources), record and submit passes (package render). The driver itself
// is an external collaborator behind the driver.Device interface; package
// driver/softdriver provides an in-memory reference device and package
// driver/wgpudriver a WebGPU-backed one.
package glint
