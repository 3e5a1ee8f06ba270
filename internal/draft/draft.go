// Package draft implements the server-side draft of the "add trip" form: a
// pure state-transition store over a closed set of actions, a staging area
// for images awaiting submission, and a per-user session manager.
package draft

import (
	"errors"
	"strings"
)

// ActionType enumerates the closed set of draft transitions. Reduce rejects
// anything outside this set, so a missing case is caught by tests rather
// than silently ignored.
type ActionType string

const (
	SetLocation       ActionType = "SET_LOCATION"
	SetReviewContent  ActionType = "SET_REVIEW_CONTENT"
	SetRating         ActionType = "SET_RATING"
	SetIsPublic       ActionType = "SET_IS_PUBLIC"
	SetSubmitting     ActionType = "SET_SUBMITTING"
	SetDestName       ActionType = "SET_DEST_NAME"
	SetDestDesc       ActionType = "SET_DEST_DESC"
	SetDestDay        ActionType = "SET_DEST_DAY"
	AddDestination    ActionType = "ADD_DESTINATION"
	RemoveDestination ActionType = "REMOVE_DESTINATION"
	StageImages       ActionType = "STAGE_IMAGES"
	RemoveStagedImage ActionType = "REMOVE_STAGED_IMAGE"
	Reset             ActionType = "RESET"
)

// ErrUnknownAction is returned by Reduce for an action type outside the
// closed set.
var ErrUnknownAction = errors.New("unknown draft action")

// Destination day bounds for a draft entry.
const (
	MinDay = 1
	MaxDay = 7
)

// Action is a tagged transition. Which payload field is meaningful depends
// on Type: Text for the string setters, Number for SET_RATING, SET_DEST_DAY
// and the index-based removals, Flag for the boolean setters, and Images for
// STAGE_IMAGES (attached internally by the manager, never from JSON).
type Action struct {
	Type   ActionType    `json:"type"`
	Text   string        `json:"text,omitempty"`
	Number int           `json:"number,omitempty"`
	Flag   bool          `json:"flag,omitempty"`
	Images []StagedImage `json:"-"`
}

// DraftDestination is an in-progress stop. It has no identity until
// persisted; its position in the sequence determines the order_num assigned
// at save time.
type DraftDestination struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Day         int    `json:"day"`
}

// StagedImage is the metadata of an image staged for upload. The bytes live
// in the staging store under Key; PreviewToken resolves to them for preview
// serving and is revoked when the entry is released.
type StagedImage struct {
	Key          string `json:"key"`
	FileName     string `json:"file_name"`
	ContentType  string `json:"content_type"`
	PreviewToken string `json:"preview_token"`
}

// State is the draft form state. Values are copied on every transition;
// Reduce never mutates its input.
type State struct {
	Location      string             `json:"location"`
	ReviewContent string             `json:"review_content"`
	Rating        int                `json:"rating"`
	IsPublic      bool               `json:"is_public"`
	Submitting    bool               `json:"submitting"`
	Destinations  []DraftDestination `json:"destinations"`
	DestName      string             `json:"dest_name"`
	DestDesc      string             `json:"dest_desc"`
	DestDay       int                `json:"dest_day"`
	StagedImages  []StagedImage      `json:"staged_images"`
}

// NewState returns the initial draft state: rating 5, public visibility,
// destination day 1, everything else empty.
func NewState() State {
	return State{
		Rating:       5,
		IsPublic:     true,
		DestDay:      MinDay,
		Destinations: []DraftDestination{},
		StagedImages: []StagedImage{},
	}
}

// Reduce applies a single action to the state and returns the next state.
// It is pure: no I/O, no mutation of the input. Invalid payloads (rating or
// day out of range, index out of range) leave the state unchanged; an action
// type outside the closed set returns ErrUnknownAction.
func Reduce(s State, a Action) (State, error) {
	switch a.Type {
	case SetLocation:
		s.Location = a.Text
	case SetReviewContent:
		s.ReviewContent = a.Text
	case SetRating:
		if a.Number >= 1 && a.Number <= 5 {
			s.Rating = a.Number
		}
	case SetIsPublic:
		s.IsPublic = a.Flag
	case SetSubmitting:
		s.Submitting = a.Flag
	case SetDestName:
		s.DestName = a.Text
	case SetDestDesc:
		s.DestDesc = a.Text
	case SetDestDay:
		if a.Number >= MinDay && a.Number <= MaxDay {
			s.DestDay = a.Number
		}
	case AddDestination:
		name := strings.TrimSpace(s.DestName)
		if name == "" {
			return s, nil
		}
		next := make([]DraftDestination, len(s.Destinations), len(s.Destinations)+1)
		copy(next, s.Destinations)
		s.Destinations = append(next, DraftDestination{
			Name:        name,
			Description: strings.TrimSpace(s.DestDesc),
			Day:         s.DestDay,
		})
		s.DestName = ""
		s.DestDesc = ""
		s.DestDay = MinDay
	case RemoveDestination:
		if a.Number < 0 || a.Number >= len(s.Destinations) {
			return s, nil
		}
		next := make([]DraftDestination, 0, len(s.Destinations)-1)
		next = append(next, s.Destinations[:a.Number]...)
		next = append(next, s.Destinations[a.Number+1:]...)
		s.Destinations = next
	case StageImages:
		if len(a.Images) == 0 {
			return s, nil
		}
		next := make([]StagedImage, len(s.StagedImages), len(s.StagedImages)+len(a.Images))
		copy(next, s.StagedImages)
		s.StagedImages = append(next, a.Images...)
	case RemoveStagedImage:
		if a.Number < 0 || a.Number >= len(s.StagedImages) {
			return s, nil
		}
		next := make([]StagedImage, 0, len(s.StagedImages)-1)
		next = append(next, s.StagedImages[:a.Number]...)
		next = append(next, s.StagedImages[a.Number+1:]...)
		s.StagedImages = next
	case Reset:
		return NewState(), nil
	default:
		return s, ErrUnknownAction
	}
	return s, nil
}
