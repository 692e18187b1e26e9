package object

// Module is the host-registered module flavor from spec.md §3/§9's
// resolved Open Question: original_source distinguishes a file-backed
// ModuleImportObject from a host-registered ModuleCustonObject, but
// module loading from source files is explicitly out of scope (spec.md
// §1 Non-goals), so object.Module implements only the host-registered
// shape — a named bundle of attributes Go code fills through Register,
// never one backed by a parsed file. Nothing in this module creates one
// at startup.
type Module struct {
	base
	Name string
}

func NewModule(name string) *Module {
	return &Module{Name: name, base: base{attrs: map[string]Value{}}}
}

func (m *Module) Kind() Kind            { return KindModule }
func (m *Module) Type() *TypeDescriptor { return ModuleType }

func (m *Module) ToBool() (bool, error)  { return true, nil }
func (m *Module) ToStr() (string, error) { return "<module " + m.Name + ">", nil }
func (m *Module) Print() (string, error) { return m.ToStr() }

// Register inserts a named attribute (typically a *Func built with
// NewNativeFunc) into the module's table. Used only during startup
// wiring, not at runtime.
func (m *Module) Register(name string, v Value) {
	if m.attrs == nil {
		m.attrs = map[string]Value{}
	}
	m.attrs[name] = v
}
