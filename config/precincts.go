package config

// Precinct represents a precinct configuration
type Precinct struct {
	Name         string `json:"name"`
	Phase        string `json:"phase"`
	TypicalPlots []int  `json:"typical_plot_sizes_sq_yd"`
}

// SupportedPrecincts is the default precinct registry. A precincts.json
// config file overrides it when present.
var SupportedPrecincts = []Precinct{
	{
		Name:         "precinct_10",
		Phase:        "phase_8",
		TypicalPlots: []int{125, 250},
	},
	{
		Name:         "precinct_12",
		Phase:        "phase_8",
		TypicalPlots: []int{125},
	},
	{
		Name:         "precinct_19",
		Phase:        "phase_8",
		TypicalPlots: []int{125, 250, 500},
	},
	// Add more precincts here as needed
}

// GetPrecinctNames returns a list of supported precinct names
func GetPrecinctNames() []string {
	names := make([]string, len(SupportedPrecincts))
	for i, p := range SupportedPrecincts {
		names[i] = p.Name
	}
	return names
}

// GetPrecinctByName returns a precinct configuration by name
func GetPrecinctByName(name string) *Precinct {
	for _, p := range SupportedPrecincts {
		if p.Name == name {
			return &p
		}
	}
	return nil
}
