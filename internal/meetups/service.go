package meetups

import (
	"strconv"

	"github.com/rockrashit19/Duslar/internal/api"
)

// Service groups the per-resource services over one client.
type Service struct {
	Events  *Events
	Users   *Users
	Notes   *Notes
	History *History
	Files   *Files
}

// New creates a Service backed by client.
func New(client *api.Client) *Service {
	return &Service{
		Events:  &Events{client: client},
		Users:   &Users{client: client},
		Notes:   &Notes{client: client},
		History: &History{client: client},
		Files:   &Files{client: client},
	}
}

func idPath(prefix string, id int64, suffix ...string) string {
	p := prefix + "/" + strconv.FormatInt(id, 10)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}
