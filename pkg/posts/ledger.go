package posts

import "sort"

// VoteSets holds a post's voter emails. Both slices are kept sorted and
// deduplicated so that stored documents compare stably, and an email never
// appears in both sets at once.
type VoteSets struct {
	Up   []string
	Down []string
}

// Toggle computes the next vote state for actor. A vote first retracts any
// vote in the opposite direction, then flips the actor's membership in the
// requested set: present means un-vote, absent means vote. An unknown vote
// type leaves the state untouched; callers that care reject it up front.
func (s VoteSets) Toggle(actor string, vote VoteType) VoteSets {
	switch vote {
	case Upvote:
		return VoteSets{
			Up:   toggleMember(s.Up, actor),
			Down: removeMember(s.Down, actor),
		}
	case Downvote:
		return VoteSets{
			Up:   removeMember(s.Up, actor),
			Down: toggleMember(s.Down, actor),
		}
	}

	return VoteSets{Up: normalize(s.Up), Down: normalize(s.Down)}
}

func (s VoteSets) Counts() (up, down int) {
	return len(s.Up), len(s.Down)
}

func contains(set []string, member string) bool {
	i := sort.SearchStrings(set, member)
	return i < len(set) && set[i] == member
}

func removeMember(set []string, member string) []string {
	set = normalize(set)
	if !contains(set, member) {
		return set
	}

	res := make([]string, 0, len(set)-1)
	for _, m := range set {
		if m != member {
			res = append(res, m)
		}
	}

	return res
}

func toggleMember(set []string, member string) []string {
	set = normalize(set)
	if contains(set, member) {
		return removeMember(set, member)
	}

	res := make([]string, 0, len(set)+1)
	res = append(res, set...)
	res = append(res, member)
	sort.Strings(res)

	return res
}

// normalize returns a sorted copy with duplicates dropped. Stored documents
// are already normalized, but the ledger never trusts its input.
func normalize(set []string) []string {
	res := make([]string, 0, len(set))
	res = append(res, set...)
	sort.Strings(res)

	out := res[:0]
	for i, m := range res {
		if i == 0 || res[i-1] != m {
			out = append(out, m)
		}
	}

	return out
}
