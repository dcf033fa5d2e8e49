package notify

import (
	"time"

	"github.com/angas/junegloom/climate"
)

// Notice announces that a new dataset is being served.
type Notice struct {
	Id       string    `json:"id"`
	BuiltAt  time.Time `json:"builtAt"`
	Checksum string    `json:"checksum"`
	RealDays int       `json:"realDays"`
	Cities   int       `json:"cities"`
	Restored bool      `json:"restored"`
}

func NoticeFrom(ds *climate.Dataset) Notice {
	return Notice{
		Id:       ds.ID,
		BuiltAt:  ds.BuiltAt,
		Checksum: ds.Checksum,
		RealDays: ds.RealDays,
		Cities:   len(ds.Cities.Records()),
		Restored: ds.Restored,
	}
}
