// Package chat implements the conversational core: intent classification,
// simulated reply scheduling, the location permission gate, and the service
// that ties them to the message store.
package chat

import (
	"strings"

	"github.com/agrilink/messaging/internal/catalog"
	"github.com/agrilink/messaging/internal/models"
)

// DirectiveKind is the kind of reply the router instructs the service to
// produce.
type DirectiveKind string

const (
	DirectiveText           DirectiveKind = "text"
	DirectiveItemList       DirectiveKind = "item_list"
	DirectiveLocationPrompt DirectiveKind = "location_prompt"
)

// Directive is the router's output: what the assistant should reply with.
type Directive struct {
	Kind  DirectiveKind
	Text  string
	Items []models.ItemCard
}

// rule pairs a keyword predicate with a directive builder. Rules are
// evaluated in order and the first match wins; the order is part of the
// router's contract, not an accident of code layout.
type rule struct {
	name  string
	match func(utterance string) bool
	build func(utterance string, perm models.PermissionState) Directive
}

// cropVocabulary is the fixed set of crop names the router recognizes.
// Matching is by substring, so plural forms ("tomatoes") match too.
var cropVocabulary = []string{"potato", "tomato", "carrot"}

// Router maps a normalized user utterance to a reply directive. Classification
// is deterministic: the same utterance and permission state always produce the
// same directive shape.
type Router struct {
	catalog catalog.Source
	rules   []rule
}

// NewRouter creates a router backed by the given catalog.
func NewRouter(src catalog.Source) *Router {
	r := &Router{catalog: src}
	r.rules = []rule{
		{
			name:  "nearby",
			match: containsAny("nearby", "near me", "location"),
			build: func(_ string, perm models.PermissionState) Directive {
				if perm == models.PermissionGranted {
					return Directive{Kind: DirectiveItemList, Text: replyNearby, Items: r.catalog.Nearby()}
				}
				return Directive{Kind: DirectiveLocationPrompt, Text: replyLocationPrompt}
			},
		},
		{
			name:  "recent",
			match: containsAny("fresh", "today", "recent"),
			build: func(string, models.PermissionState) Directive {
				return Directive{Kind: DirectiveItemList, Text: replyRecent, Items: r.catalog.Recent()}
			},
		},
		{
			name:  "crop",
			match: containsAny(cropVocabulary...),
			build: func(utterance string, _ models.PermissionState) Directive {
				token := matchedCropToken(utterance)
				return Directive{Kind: DirectiveItemList, Text: replyCropMatch, Items: r.catalog.MatchName(token)}
			},
		},
		{
			name:  "organic",
			match: containsAny("organic"),
			build: func(string, models.PermissionState) Directive {
				return Directive{Kind: DirectiveItemList, Text: replyOrganic, Items: r.catalog.Organic()}
			},
		},
	}
	return r
}

// Classify maps an utterance to a reply directive. The caller must reject
// empty or whitespace-only utterances before calling; Classify itself treats
// them as unmatched and falls through to the help reply.
func (r *Router) Classify(utterance string, perm models.PermissionState) Directive {
	normalized := strings.ToLower(utterance)
	for _, rl := range r.rules {
		if rl.match(normalized) {
			return rl.build(normalized, perm)
		}
	}
	return Directive{Kind: DirectiveText, Text: replyHelp}
}

// containsAny builds a predicate matching any of the given substrings.
func containsAny(terms ...string) func(string) bool {
	return func(utterance string) bool {
		for _, t := range terms {
			if strings.Contains(utterance, t) {
				return true
			}
		}
		return false
	}
}

// matchedCropToken returns the first vocabulary term found in the utterance.
// The terms are singular, so plural mentions ("tomatoes") still hit via the
// substring check. The match is knowingly loose (see catalog.Memory.MatchName).
func matchedCropToken(utterance string) string {
	for _, term := range cropVocabulary {
		if strings.Contains(utterance, term) {
			return term
		}
	}
	return ""
}
