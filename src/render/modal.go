package render

import (
	"encoding/json"
	"fmt"

	"github.com/dinopoll/dinopoll/src/types"
	"github.com/slack-go/slack"
)

// DefaultOptionCount is how many option fields a fresh create modal shows.
const DefaultOptionCount = 4

// Placeholder flavor for the first few option fields.
var placeholderOptions = []string{"Orpheus", "Steggy", "Caleb Deniosaur", "Rishiosaur"}

// ModalMetadata rides in the view's private metadata so a resubmitted or
// updated modal knows its channel and how many option fields to draw.
type ModalMetadata struct {
	Channel     string `json:"channel"`
	OptionCount int    `json:"optionCount"`
}

// InputBlocks builds the shared form body: the flag checkboxes, the title
// field, and optionCount optional option fields.
func InputBlocks(initialTitle string, optionCount int) []slack.Block {
	checkboxes := slack.NewCheckboxGroupsBlockElement("options",
		slack.NewOptionBlockObject("anonymous", plain("Make votes anonymous"), nil),
		slack.NewOptionBlockObject("multipleVotes", plain("Allow voting for multiple options"), nil),
		slack.NewOptionBlockObject("othersCanAdd", plain("Allow others to add options"), nil),
	)
	flags := slack.NewInputBlock("options", plain("Options"), nil, checkboxes)
	flags.Optional = true

	titleInput := slack.NewPlainTextInputBlockElement(plain("Who is the best dino?"), "title")
	titleInput.InitialValue = initialTitle

	blocks := []slack.Block{
		flags,
		slack.NewInputBlock("title", plain("Poll question"), nil, titleInput),
		slack.NewDividerBlock(),
	}

	for i := 0; i < optionCount; i++ {
		var placeholder *slack.TextBlockObject
		if i < len(placeholderOptions) {
			placeholder = plain(placeholderOptions[i])
		}
		id := fmt.Sprintf("option%d", i+1)
		input := slack.NewInputBlock(id, plain(fmt.Sprintf("Option %d", i+1)), nil,
			slack.NewPlainTextInputBlockElement(placeholder, id))
		input.Optional = true
		blocks = append(blocks, input)
	}

	return blocks
}

// CreatePollModal builds the poll creation modal for a channel.
func CreatePollModal(channel, initialTitle string, optionCount int) slack.ModalViewRequest {
	metadata, _ := json.Marshal(ModalMetadata{Channel: channel, OptionCount: optionCount})

	blocks := []slack.Block{
		slack.NewSectionBlock(mrkdwn(fmt.Sprintf("Send a poll to the <#%s> channel", channel)), nil, nil),
	}
	blocks = append(blocks, InputBlocks(initialTitle, optionCount)...)
	blocks = append(blocks, slack.NewActionBlock("",
		slack.NewButtonBlockElement("modalAddOption", "", plain("+ Add another option")),
	))

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      "create",
		PrivateMetadata: string(metadata),
		Title:           plain("Create Poll"),
		Submit:          plain("Create"),
		Close:           plain("Cancel"),
		Blocks:          slack.Blocks{BlockSet: blocks},
	}
}

// AddOptionMetadata is the private metadata of the add-option modal.
type AddOptionMetadata struct {
	Poll uint64 `json:"poll"`
}

// AddOptionModal builds the modal shown by the "+ Add option" message button.
func AddOptionModal(p *types.Poll) slack.ModalViewRequest {
	metadata, _ := json.Marshal(AddOptionMetadata{Poll: p.ID})

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      "addOption",
		PrivateMetadata: string(metadata),
		Title:           plain("Add option"),
		Submit:          plain("Add"),
		Blocks: slack.Blocks{BlockSet: []slack.Block{
			slack.NewSectionBlock(mrkdwn(fmt.Sprintf("Add an option to *%s*", p.Title)), nil, nil),
			slack.NewInputBlock("option", plain("Option"), nil,
				slack.NewPlainTextInputBlockElement(nil, "option")),
		}},
	}
}

// ConfirmationBlocks is the ephemeral confirmation sent to a poll's creator,
// with the poll id needed for /dinopoll-toggle and a fact button for flavor.
func ConfirmationBlocks(pollID uint64) []slack.Block {
	return []slack.Block{
		slack.NewSectionBlock(
			mrkdwn(fmt.Sprintf("Poll successfully created! Run `/dinopoll-toggle %d` to close the poll once you're done.", pollID)),
			nil,
			slack.NewAccessory(slack.NewButtonBlockElement("dinoFact", "", plain(":sauropod:"))),
		),
		slack.NewContextBlock("",
			mrkdwn(fmt.Sprintf(":information_source: Remember to save your poll's ID (`%d`) if you'd like to close it later.", pollID))),
	}
}

// WorkflowStepBlocks is the configuration form for the create-poll workflow
// step: the create-modal body plus a channel selector, since a workflow step
// has no channel of its own.
func WorkflowStepBlocks() []slack.Block {
	channelSelect := slack.NewOptionsSelectBlockElement(
		slack.OptTypeChannels, plain("Select one..."), "channel")

	blocks := []slack.Block{
		slack.NewInputBlock("channel", plain("Channel"), nil, channelSelect),
	}
	return append(blocks, InputBlocks("", DefaultOptionCount)...)
}
