package model

import (
	"strconv"
	"time"
)

// DataPayload is the custom key/value block attached to a push message.
// The FCM v1 wire format requires every data value to be a string, so all
// setters stringify up front rather than leaving it to serialization.
type DataPayload map[string]string

func NewDataPayload() DataPayload {
	return make(DataPayload)
}

func (d DataPayload) Set(key, value string) DataPayload {
	d[key] = value
	return d
}

func (d DataPayload) SetInt(key string, value int64) DataPayload {
	d[key] = strconv.FormatInt(value, 10)
	return d
}

func (d DataPayload) SetFloat(key string, value float64) DataPayload {
	d[key] = strconv.FormatFloat(value, 'f', -1, 64)
	return d
}

func (d DataPayload) SetTime(key string, value time.Time) DataPayload {
	d[key] = value.Format("2006-01-02 15:04:05")
	return d
}

// Clone returns a copy so senders can merge defaults without mutating the
// caller's map.
func (d DataPayload) Clone() DataPayload {
	out := make(DataPayload, len(d)+1)
	for k, v := range d {
		out[k] = v
	}
	return out
}
