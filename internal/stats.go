package internal

import (
	"sort"
	"strings"
	"time"
)

// dateLayout is the calendar-date key used for active days
const dateLayout = "2006-01-02"

// Count is one row of a frequency table
type Count struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// PhraseCount is the number of messages containing a configured phrase
type PhraseCount struct {
	Group  string `json:"group" yaml:"group"`
	Phrase string `json:"phrase" yaml:"phrase"`
	Hits   int    `json:"hits" yaml:"hits"`
}

// Summary holds the aggregate statistics of one conversation. Every table is
// a sorted slice so the summary serializes identically across runs.
type Summary struct {
	TotalMessages         int           `json:"total_messages" yaml:"total_messages"`
	Senders               []Count       `json:"senders" yaml:"senders"`
	Kinds                 []Count       `json:"kinds" yaml:"kinds"`
	EmojiTotal            int           `json:"emoji_total" yaml:"emoji_total"`
	UniqueEmoji           int           `json:"unique_emoji" yaml:"unique_emoji"`
	Emoji                 []Count       `json:"emoji" yaml:"emoji"`
	Phrases               []PhraseCount `json:"phrases" yaml:"phrases"`
	PhraseGroups          []Count       `json:"phrase_groups" yaml:"phrase_groups"`
	Mentions              []Count       `json:"mentions" yaml:"mentions"`
	ActiveDays            int           `json:"active_days" yaml:"active_days"`
	ActiveDates           []string      `json:"active_dates" yaml:"active_dates"`
	MostActiveDay         string        `json:"most_active_day,omitempty" yaml:"most_active_day,omitempty"`
	MostActiveDayCount    int           `json:"most_active_day_count" yaml:"most_active_day_count"`
	FirstMessage          time.Time     `json:"first_message" yaml:"first_message"`
	LastMessage           time.Time     `json:"last_message" yaml:"last_message"`
	DurationDays          int           `json:"duration_days" yaml:"duration_days"`
	ReactionTotal         int           `json:"reaction_total" yaml:"reaction_total"`
	Reactions             []Count       `json:"reactions" yaml:"reactions"`
	SynthesizedTimestamps int           `json:"synthesized_timestamps" yaml:"synthesized_timestamps"`
	Timezone              string        `json:"timezone" yaml:"timezone"`
}

// Lookup returns the count stored under key, or zero
func Lookup(counts []Count, key string) int {
	for _, c := range counts {
		if c.Key == key {
			return c.Count
		}
	}
	return 0
}

// PhraseHits returns the hit count of a phrase in a group
func (s *Summary) PhraseHits(group, phrase string) int {
	for _, p := range s.Phrases {
		if p.Group == group && p.Phrase == phrase {
			return p.Hits
		}
	}
	return 0
}

// StatsAggregator computes a Summary in one pass over a message sequence.
// It holds only configuration and can be reused.
type StatsAggregator struct {
	loc      *time.Location
	groups   []PhraseGroup
	matchers []*PhraseMatcher
	names    *PhraseMatcher
}

// NewStatsAggregator creates an aggregator for the configured phrases, names
// and timezone
func NewStatsAggregator(cfg *Config) *StatsAggregator {
	a := &StatsAggregator{loc: cfg.Location(), groups: cfg.PhraseGroups()}
	for _, group := range a.groups {
		a.matchers = append(a.matchers, NewPhraseMatcher(group.Phrases))
	}

	var names []string
	for _, name := range []string{cfg.Self, cfg.Target} {
		name = strings.TrimSpace(name)
		if name != "" && !containsFold(names, name) {
			names = append(names, name)
		}
	}
	a.names = NewPhraseMatcher(names)
	return a
}

// Aggregate computes the summary of messages
func (a *StatsAggregator) Aggregate(messages []Message) *Summary {
	senders := make(map[string]int)
	kinds := make(map[Kind]int)
	emoji := make(map[string]int)
	reactions := make(map[string]int)
	days := make(map[string]int)
	phraseHits := make([][]int, len(a.matchers))
	groupHits := make([]int, len(a.matchers))
	for i, m := range a.matchers {
		phraseHits[i] = make([]int, len(m.Phrases()))
	}
	mentions := make([]int, len(a.names.Phrases()))

	s := &Summary{TotalMessages: len(messages), Timezone: a.loc.String()}
	for i := range messages {
		msg := &messages[i]
		senders[msg.Sender]++
		kinds[msg.Kind]++
		if msg.SynthesizedTime {
			s.SynthesizedTimestamps++
		}

		for _, e := range EmojiClusters(msg.Text) {
			emoji[e]++
			s.EmojiTotal++
		}

		for g, m := range a.matchers {
			hits := m.Match(msg.Text)
			for _, p := range hits {
				phraseHits[g][p]++
			}
			if len(hits) > 0 {
				groupHits[g]++
			}
		}
		for _, n := range a.names.Match(msg.Text) {
			mentions[n]++
		}

		for _, r := range msg.Reactions {
			if r.Reaction == "" {
				continue
			}
			reactions[r.Reaction]++
			s.ReactionTotal++
		}

		local := msg.Timestamp.In(a.loc)
		days[local.Format(dateLayout)]++
		if i == 0 || msg.Timestamp.Before(s.FirstMessage) {
			s.FirstMessage = msg.Timestamp
		}
		if i == 0 || msg.Timestamp.After(s.LastMessage) {
			s.LastMessage = msg.Timestamp
		}
	}

	s.Senders = sortCounts(senders)
	for _, k := range AllKinds {
		s.Kinds = append(s.Kinds, Count{Key: string(k), Count: kinds[k]})
	}
	s.Emoji = sortCounts(emoji)
	s.UniqueEmoji = len(emoji)
	s.Reactions = sortCounts(reactions)

	for g, group := range a.groups {
		for p, phrase := range a.matchers[g].Phrases() {
			s.Phrases = append(s.Phrases, PhraseCount{Group: group.Name, Phrase: phrase, Hits: phraseHits[g][p]})
		}
		s.PhraseGroups = append(s.PhraseGroups, Count{Key: group.Name, Count: groupHits[g]})
	}
	for n, name := range a.names.Phrases() {
		s.Mentions = append(s.Mentions, Count{Key: name, Count: mentions[n]})
	}

	s.ActiveDates = make([]string, 0, len(days))
	for day := range days {
		s.ActiveDates = append(s.ActiveDates, day)
	}
	sort.Strings(s.ActiveDates)
	s.ActiveDays = len(s.ActiveDates)
	for _, day := range s.ActiveDates {
		// Ascending dates, so ties keep the earliest day
		if days[day] > s.MostActiveDayCount {
			s.MostActiveDay, s.MostActiveDayCount = day, days[day]
		}
	}
	if len(messages) > 0 {
		s.DurationDays = calendarDays(s.FirstMessage.In(a.loc), s.LastMessage.In(a.loc))
	}
	return s
}

// calendarDays counts the calendar days from first to last, both included
func calendarDays(first, last time.Time) int {
	start := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}

// sortCounts orders a table by count descending, then key ascending
func sortCounts[K ~string](m map[K]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Key: string(k), Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func containsFold(items []string, s string) bool {
	for _, item := range items {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
