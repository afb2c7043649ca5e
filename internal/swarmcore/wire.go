package swarmcore

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"swarm-console/internal/mission"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const TypeJobUpdate = "JOB_UPDATE"

var ErrMalformed = errors.New("malformed payload")

// Snapshot is the body of GET /api/v1/job/{id}.
type Snapshot struct {
	JobID  string         `json:"job_id"`
	Status mission.Status `json:"status"`
	Data   mission.Patch  `json:"data"`
}

func (s Snapshot) Event() mission.Event {
	return mission.Event{Kind: mission.KindSnapshot, JobID: s.JobID, Status: s.Status, Data: s.Data}
}

// Update is one JOB_UPDATE frame pushed over the stream.
type Update struct {
	Type   string         `json:"type"`
	JobID  string         `json:"job_id"`
	Status mission.Status `json:"status"`
	Data   mission.Patch  `json:"data"`
}

func (u Update) Event() mission.Event {
	return mission.Event{Kind: mission.KindDelta, JobID: u.JobID, Status: u.Status, Data: u.Data}
}

// DecodeUpdate parses one stream frame. Frames of another type report
// ok=false with no error; unparseable frames wrap ErrMalformed.
func DecodeUpdate(frame []byte) (u Update, ok bool, err error) {
	if err := json.Unmarshal(frame, &u); err != nil {
		return Update{}, false, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if u.Type != TypeJobUpdate {
		return Update{}, false, nil
	}
	return u, true, nil
}

type CreateJobRequest struct {
	Task    string  `json:"task"`
	SwarmID *string `json:"swarm_id"`
}

type CreateJobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}
