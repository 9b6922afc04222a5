package expr

// BindingFunc returns the current numeric value of a bound variable, e.g. a
// closure reading a state's live molecule count.
type BindingFunc func() float64

// VariableRegister maps identifiers to the constant numeric values used
// during Simplify. It does not participate in Eval.
type VariableRegister struct {
	values map[string]float64
}

// NewVariableRegister returns an empty VariableRegister.
func NewVariableRegister() *VariableRegister {
	return &VariableRegister{values: make(map[string]float64)}
}

// Set records the value of an identifier, overwriting any prior value.
func (r *VariableRegister) Set(name string, value float64) {
	r.values[name] = value
}

// Lookup returns the recorded value for name and whether it was present.
func (r *VariableRegister) Lookup(name string) (float64, bool) {
	v, ok := r.values[name]
	return v, ok
}

// BindingRegister maps identifiers to callables that return the current
// numeric value of a live quantity (typically a state's molecule count).
// It is consulted by Bind only: each Variable keeps the function found at
// Bind time and calls it on every Eval, so values are read live, but a
// later change to the register is not seen until Bind is called again.
type BindingRegister struct {
	lookups map[string]BindingFunc
}

// NewBindingRegister returns an empty BindingRegister.
func NewBindingRegister() *BindingRegister {
	return &BindingRegister{lookups: make(map[string]BindingFunc)}
}

// Bind records the lookup function for an identifier, overwriting any prior
// binding.
func (r *BindingRegister) Bind(name string, fn BindingFunc) {
	r.lookups[name] = fn
}

// Lookup returns the lookup function for name and whether it was present.
func (r *BindingRegister) Lookup(name string) (BindingFunc, bool) {
	fn, ok := r.lookups[name]
	return fn, ok
}
