package types

// Result is one module's answer to a hook
type Result struct {
	Module string
	Value  interface{}
	// Handled is false when the module has no handler for the hook
	Handled bool
}

// Results holds hook answers in registry order
type Results []Result

// Get returns the result recorded for a module
func (r Results) Get(module string) (Result, bool) {
	for _, result := range r {
		if result.Module == module {
			return result, true
		}
	}
	return Result{}, false
}

// Modules returns the module names in order
func (r Results) Modules() []string {
	names := make([]string, len(r))
	for i, result := range r {
		names[i] = result.Module
	}
	return names
}

// Values returns the non-nil values in order
func (r Results) Values() []interface{} {
	var values []interface{}
	for _, result := range r {
		if result.Value != nil {
			values = append(values, result.Value)
		}
	}
	return values
}

// Filter aggregates hook results
type Filter func(Results) interface{}

// HookOptions controls hook dispatch
type HookOptions struct {
	// Filter aggregates results, Latest when nil
	Filter Filter
	// Restrict limits dispatch to these module names when non-nil
	Restrict []string
}

// All returns every result, absences included
func All(results Results) interface{} {
	return results
}

// Earliest returns the first non-nil value
func Earliest(results Results) interface{} {
	values := results.Values()
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

// First is an alias for Earliest
func First(results Results) interface{} {
	return Earliest(results)
}

// Latest returns the last non-nil value
func Latest(results Results) interface{} {
	values := results.Values()
	if len(values) == 0 {
		return nil
	}
	return values[len(values)-1]
}
