package domain

type CommandType string

const (
	CommandTransfer CommandType = "transfer"
	CommandHelp     CommandType = "help"
	CommandReset    CommandType = "reset"
	CommandGreeting CommandType = "greeting"
	CommandUnknown  CommandType = "unknown"
)

func (c CommandType) String() string {
	return string(c)
}
