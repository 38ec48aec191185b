package sim

import "fmt"

// State holds the compartment counts of one trajectory at one instant.
// Counts are whole individuals; the engines never create or destroy them,
// so S + I + R stays equal to the initial population for the whole run.
type State struct {
	S int64 // susceptible
	I int64 // infected (prevalence)
	R int64 // recovered
}

// N returns the total population.
func (st State) N() int64 {
	return st.S + st.I + st.R
}

// Validate rejects negative counts and an empty population.
func (st State) Validate() error {
	if st.S < 0 || st.I < 0 || st.R < 0 {
		return fmt.Errorf("compartment counts must be >= 0, got S=%d I=%d R=%d", st.S, st.I, st.R)
	}
	if st.N() <= 0 {
		return fmt.Errorf("total population must be > 0, got %d", st.N())
	}
	return nil
}
