package shader

import (
	"fmt"

	"github.com/Carmen-Shannon/glint/driver"
)

// LinkIntrospectionError indicates a program could not be linked or its
// interface could not be queried. Fatal to pipeline construction for that
// program.
type LinkIntrospectionError struct {
	// Reason describes what failed.
	Reason string
	// Err is the underlying driver error, if any.
	Err error
}

func (e *LinkIntrospectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("shader: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("shader: %s", e.Reason)
}

func (e *LinkIntrospectionError) Unwrap() error {
	return e.Err
}

// program is the implementation of the Program interface.
type program struct {
	prog  driver.Program
	iface *Interface
}

// Program is a linked shader program together with its cached reflected
// Interface. The Interface is computed once when the program is linked and
// never changes; pipeline construction matches layout descriptors against it.
type Program interface {
	// Interface returns the program's cached active-resource interface.
	//
	// Returns:
	//   - *Interface: the immutable reflected slot set
	Interface() *Interface

	// Driver returns the underlying driver program, for device submission.
	//
	// Returns:
	//   - driver.Program: the linked driver program
	Driver() driver.Program

	// Release frees the underlying driver program. The Program must not be
	// used afterwards; pipelines built from it become invalid.
	Release()
}

var _ Program = &program{}

// Link compiles and links a program on the given device and reflects its
// active-resource interface. Reflection runs here, exactly once; the result
// is cached on the returned Program.
//
// Parameters:
//   - dev: the device to link on
//   - vertexSrc: vertex stage source text, passed through to the device
//   - fragmentSrc: fragment stage source text, passed through to the device
//
// Returns:
//   - Program: the linked program with its cached interface
//   - error: a *LinkIntrospectionError if linking or introspection fails
func Link(dev driver.Device, vertexSrc, fragmentSrc string) (Program, error) {
	prog, err := dev.LinkProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, &LinkIntrospectionError{Reason: "program link failed", Err: err}
	}

	refl, err := prog.Reflect()
	if err != nil {
		prog.Release()
		return nil, &LinkIntrospectionError{Reason: "program introspection failed", Err: err}
	}

	iface, err := newInterface(refl)
	if err != nil {
		prog.Release()
		return nil, &LinkIntrospectionError{Reason: "invalid program interface", Err: err}
	}

	return &program{prog: prog, iface: iface}, nil
}

func (p *program) Interface() *Interface {
	return p.iface
}

func (p *program) Driver() driver.Program {
	return p.prog
}

func (p *program) Release() {
	if p.prog != nil {
		p.prog.Release()
		p.prog = nil
	}
}
