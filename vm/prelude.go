package vm

// Prelude defines the words built from primitives at start-up. Programs
// may rebind any of them; the driver prints the final stack through
// whatever puts holds at exit.
const Prelude = `"\n":n;
{print n print}:puts;
{` + "`" + `puts}:p;
{1$if}:and;
{1$\if}:or;
{\!!{!}*}:xor;
`

// LoadPrelude compiles and runs Prelude. A compiler must be installed.
func (m *Machine) LoadPrelude() error {
	return m.Run([]byte(Prelude))
}
