package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/dinopoll/dinopoll/src/types"
	"github.com/slack-go/slack"
)

const progressBarWidth = 30

// Message renders a poll into its chat message blocks. Pure function of the
// poll aggregate; options must already be in creation order and their votes in
// cast order.
func Message(p *types.Poll) []slack.Block {
	winner := winnerOption(p)

	var tags []string
	if p.Anonymous {
		tags = append(tags, "responses are anonymous")
	}
	if p.MultipleVotes {
		tags = append(tags, "you may vote for multiple options")
	}

	icon := "clipboard"
	if !p.Open {
		icon = "lock"
	}
	header := fmt.Sprintf(":%s: *%s*", icon, p.Title)
	if len(tags) > 0 {
		header += " (" + strings.Join(tags, ", ") + ")"
	}

	blocks := []slack.Block{
		slack.NewSectionBlock(mrkdwn(header), nil, nil),
	}

	total := len(p.Votes)
	for i := range p.Options {
		opt := &p.Options[i]
		blocks = append(blocks, optionBlock(p, opt, total, winner))
	}

	if p.OthersCanAdd {
		blocks = append(blocks, slack.NewActionBlock("",
			slack.NewButtonBlockElement(
				fmt.Sprintf("addOption:%d", p.ID), "",
				plain("+ Add option"),
			),
		))
	}

	footer := "Created with `/dinopoll`"
	if p.CreatedBy != "" {
		footer = fmt.Sprintf("Created by <@%s> with `/dinopoll`", p.CreatedBy)
	}
	blocks = append(blocks, slack.NewContextBlock("", mrkdwn(footer)))

	return blocks
}

func optionBlock(p *types.Poll, opt *types.PollOption, total int, winner *types.PollOption) slack.Block {
	count := len(opt.Votes)

	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(count) / float64(total) * 100))
	}

	var b strings.Builder
	if winner != nil && opt.ID == winner.ID {
		b.WriteString(":white_check_mark: ")
	}
	b.WriteString(opt.Name)
	fmt.Fprintf(&b, " _(%d vote%s, *%d%%*)_", count, pluralS(count), percentage)

	if !p.Anonymous && count > 0 {
		mentions := make([]string, 0, count)
		for _, v := range opt.Votes {
			mentions = append(mentions, "<@"+v.User+">")
		}
		b.WriteString("\n" + strings.Join(mentions, ", "))
	}

	b.WriteString(progressBar(float64(percentage)/100, progressBarWidth))

	var accessory *slack.Accessory
	if p.Open {
		accessory = slack.NewAccessory(slack.NewButtonBlockElement(
			fmt.Sprintf("vote:%d:%d", p.ID, opt.ID), "",
			plain("Vote"),
		))
	}

	return slack.NewSectionBlock(mrkdwn(b.String()), nil, accessory)
}

// winnerOption returns the option to mark with the winner check, or nil. Only
// closed polls get a marker, only for a strictly positive maximum, and a tie
// keeps the first option in creation order that reached the maximum.
func winnerOption(p *types.Poll) *types.PollOption {
	if p.Open || len(p.Options) == 0 {
		return nil
	}
	most := &p.Options[0]
	for i := 1; i < len(p.Options); i++ {
		if len(p.Options[i].Votes) > len(most.Votes) {
			most = &p.Options[i]
		}
	}
	if len(most.Votes) == 0 {
		return nil
	}
	return most
}

func progressBar(progress float64, width int) string {
	cells := float64(width) * progress
	if cells == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n`")
	for i := 0; i < width; i++ {
		if float64(i) < cells {
			b.WriteRune('█')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteByte('`')
	return b.String()
}

func pluralS(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func mrkdwn(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

func plain(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, false, false)
}
