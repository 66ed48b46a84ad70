package httpserver

import "lead_finder/internal/a2a"

// AgentCardFor builds the discovery card served at /.well-known/agent.json.
func AgentCardFor(publicURL string) a2a.AgentCard {
	return a2a.AgentCard{
		Name:        "Lead Finder",
		Description: "Finds potential business leads in a city through maps search and saves them for outreach.",
		URL:         publicURL,
		Version:     "1.0.0",
		Capabilities: a2a.AgentCapabilities{
			Streaming:         false,
			PushNotifications: false,
		},
		DefaultInputModes:  []string{"text"},
		DefaultOutputModes: []string{"text"},
		Skills: []a2a.AgentSkill{
			{
				ID:          "process_search",
				Name:        "Search for Leads in a City",
				Description: "Using Google Maps and Cluster search, find potential leads from the city's businesses which has no website presence.",
				Tags:        []string{},
				Examples: []string{
					"Search for potential leads in the technology sector in San Francisco",
					"Find leads in San Francisco",
				},
			},
			{
				ID:          "save_leads",
				Name:        "Save Leads to Database",
				Description: "Saves the found leads to the database for further processing.",
				Tags:        []string{},
				Examples: []string{
					"Save leads found in San Francisco",
					"Store leads in the database",
					"Save leads for further processing",
				},
			},
		},
	}
}
