package models

import "errors"

// TruckType identifies a delivery route / vehicle class.
type TruckType string

const (
	TruckBKO TruckType = "BKO"
	TruckPYW TruckType = "PYW"
	TruckNYC TruckType = "NYC"
	TruckGKY TruckType = "GKY"
	TruckGSD TruckType = "GSD"
	TruckAUA TruckType = "AUA"
)

var ErrInvalidTruckType = errors.New("invalid truck type")

// TruckTypes lists every truck type in display order.
var TruckTypes = []TruckType{TruckBKO, TruckPYW, TruckNYC, TruckGKY, TruckGSD, TruckAUA}

func (t TruckType) Valid() bool {
	for _, known := range TruckTypes {
		if t == known {
			return true
		}
	}
	return false
}

func ParseTruckType(s string) (TruckType, error) {
	t := TruckType(s)
	if !t.Valid() {
		return "", ErrInvalidTruckType
	}
	return t, nil
}
