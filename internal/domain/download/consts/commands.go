// Package consts contains constants for the download domain
package consts

// Command represents a bot command
type Command struct {
	Name        string
	Description string
}

// Bot commands
var (
	CommandStart = Command{Name: "start", Description: "Start the bot"}
	CommandHelp  = Command{Name: "help", Description: "Show help message"}
)

// AllCommands contains all available bot commands for menu registration
var AllCommands = []Command{
	CommandStart,
	CommandHelp,
}

// Path returns the command as typed in chat, e.g. "/start"
func (c Command) Path() string {
	return "/" + c.Name
}
