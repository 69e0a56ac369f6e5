// Package file provides file-backed implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML configuration under ~/.rulebot/config.toml
//   - PromptStore: user-editable prompt templates under ~/.rulebot/prompts
package file
