package webserver

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"
)

// formOption is one non-empty option field from a submitted view, keeping its
// block id so validation errors can point at the right field.
type formOption struct {
	Block string
	Value string
}

func stateValue(view slack.View, block, action string) string {
	if view.State == nil {
		return ""
	}
	return view.State.Values[block][action].Value
}

func selectedFlags(view slack.View) (anonymous, multipleVotes, othersCanAdd bool) {
	if view.State == nil {
		return
	}
	for _, opt := range view.State.Values["options"]["options"].SelectedOptions {
		switch opt.Value {
		case "anonymous":
			anonymous = true
		case "multipleVotes":
			multipleVotes = true
		case "othersCanAdd":
			othersCanAdd = true
		}
	}
	return
}

func selectedChannel(view slack.View) string {
	if view.State == nil {
		return ""
	}
	return view.State.Values["channel"]["channel"].SelectedChannel
}

// optionValues collects the non-empty option fields in field order. Option
// blocks are numbered contiguously from option1.
func optionValues(view slack.View) []formOption {
	if view.State == nil {
		return nil
	}
	var opts []formOption
	for i := 1; ; i++ {
		block := fmt.Sprintf("option%d", i)
		actions, found := view.State.Values[block]
		if !found {
			break
		}
		if v := strings.TrimSpace(actions[block].Value); v != "" {
			opts = append(opts, formOption{Block: block, Value: v})
		}
	}
	return opts
}
