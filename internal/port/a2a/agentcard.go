package a2a

// AgentCard describes an agent's capabilities per the A2A protocol.
type AgentCard struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	URL          string  `json:"url"`
	Version      string  `json:"version"`
	Skills       []Skill `json:"skills"`
	Capabilities struct {
		Streaming bool `json:"streaming"`
	} `json:"capabilities"`
}

// Skill describes a single capability of the agent.
type Skill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	InputModes  []string `json:"inputModes"`
	OutputModes []string `json:"outputModes"`
}

// BuildAgentCard returns the static AgentCard for the comparison agent.
func BuildAgentCard(baseURL string) AgentCard {
	return AgentCard{
		Name:        "fincompare",
		Description: "A company comparison agent with A2A protocol support",
		URL:         baseURL,
		Version:     "1.0.0",
		Skills: []Skill{
			{
				ID:          "compare-companies",
				Name:        "Company Comparison",
				Description: "Compare two companies' financial performance by ticker symbol",
				InputModes:  []string{"text"},
				OutputModes: []string{"text", "data"},
			},
		},
	}
}
