package prompt

import "strings"

type TransferParserData struct {
	UserQuery    string
	Questions    []string
	MaxQuestions int
}

// NewTransferParserData escapes double quotes so the message cannot close the quoted block.
func NewTransferParserData(userQuery string, questions []string, maxQuestions int) TransferParserData {
	return TransferParserData{
		UserQuery:    strings.ReplaceAll(userQuery, `"`, "'"),
		Questions:    questions,
		MaxQuestions: maxQuestions,
	}
}
