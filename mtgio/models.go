package mtgio

import "encoding/json"

// EmptyBody is the literal body the API returns for a query that matched
// nothing. It signals "zero results", as opposed to a failed request.
const EmptyBody = `{"cards":[]}`

// Card is an individual Magic: The Gathering card. Every field is optional
// in the API; absent keys decode to the empty string.
type Card struct {
	Name     string `json:"name"`
	ManaCost string `json:"manaCost"`
	Type     string `json:"type"`
	Rarity   string `json:"rarity"`
	SetName  string `json:"setName"`
	Text     string `json:"text"`
	Flavor   string `json:"flavor"`
}

// SingleCard wraps the single-card response shape.
type SingleCard struct {
	Card Card `json:"card"`
}

// CardList wraps the multi-card response shape.
type CardList struct {
	Cards []Card `json:"cards"`
}

// ParseSingleCard decodes a single-card response body.
func ParseSingleCard(data []byte) (SingleCard, error) {
	var result SingleCard
	if err := json.Unmarshal(data, &result); err != nil {
		return SingleCard{}, &DecodeError{Message: err.Error()}
	}
	return result, nil
}

// ParseCardList decodes a multi-card response body.
func ParseCardList(data []byte) (CardList, error) {
	var result CardList
	if err := json.Unmarshal(data, &result); err != nil {
		return CardList{}, &DecodeError{Message: err.Error()}
	}
	return result, nil
}
