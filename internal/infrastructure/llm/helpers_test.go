package llm_test

import "storepilot/internal/config"

func configLLM(provider string) config.LLM {
	return config.LLM{Provider: provider}
}
