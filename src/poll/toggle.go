package poll

import "github.com/dinopoll/dinopoll/src/types"

// voteAction is the resolved effect of a vote click on a user's existing
// votes for one poll.
type voteAction struct {
	remove []uint64 // vote ids to delete
	create bool     // add a vote for the clicked option
}

// resolveToggle computes the vote toggle over the user's current votes.
//
// Multi-vote polls toggle the exact (user, option) pair and leave the user's
// other votes alone. Single-vote polls hold at most one vote per user: a click
// on the voted option removes it, a click elsewhere moves it.
func resolveToggle(multipleVotes bool, existing []types.Vote, optionID uint64) voteAction {
	if multipleVotes {
		for _, v := range existing {
			if v.OptionID == optionID {
				return voteAction{remove: []uint64{v.ID}}
			}
		}
		return voteAction{create: true}
	}

	if len(existing) == 0 {
		return voteAction{create: true}
	}

	act := voteAction{create: true}
	for _, v := range existing {
		act.remove = append(act.remove, v.ID)
		if v.OptionID == optionID {
			act.create = false
		}
	}
	return act
}
