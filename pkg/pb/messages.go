package pb

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// Reading is the wire shape of one recorded classification
type Reading struct {
	ID         int64
	Level      float64
	Brightness int32
	Session    string
	Timestamp  int64 // unix seconds
	Emotion    string
	Speaking   bool
}

// HistoryRequest selects readings in [StartTime, EndTime), unix seconds
type HistoryRequest struct {
	StartTime int64
	EndTime   int64
}

// History is the GetHistory response
type History struct {
	Readings     []Reading
	AverageLevel float64
	MinLevel     float64
	MaxLevel     float64
}

// Struct converts r to its wire form
func (r Reading) Struct() *structpb.Struct {
	return &structpb.Struct{Fields: r.fields()}
}

func (r Reading) fields() map[string]*structpb.Value {
	return map[string]*structpb.Value{
		"id":         structpb.NewNumberValue(float64(r.ID)),
		"level":      structpb.NewNumberValue(r.Level),
		"brightness": structpb.NewNumberValue(float64(r.Brightness)),
		"session":    structpb.NewStringValue(r.Session),
		"timestamp":  structpb.NewNumberValue(float64(r.Timestamp)),
		"emotion":    structpb.NewStringValue(r.Emotion),
		"speaking":   structpb.NewBoolValue(r.Speaking),
	}
}

// ReadingFromStruct parses a reading from its wire form
func ReadingFromStruct(s *structpb.Struct) (Reading, error) {
	var (
		r   Reading
		err error
	)
	if r.ID, err = intField(s, "id"); err != nil {
		return Reading{}, err
	}
	if r.Level, err = numberField(s, "level"); err != nil {
		return Reading{}, err
	}
	brightness, err := intField(s, "brightness")
	if err != nil {
		return Reading{}, err
	}
	r.Brightness = int32(brightness)
	if r.Session, err = stringField(s, "session"); err != nil {
		return Reading{}, err
	}
	if r.Timestamp, err = intField(s, "timestamp"); err != nil {
		return Reading{}, err
	}
	if r.Emotion, err = stringField(s, "emotion"); err != nil {
		return Reading{}, err
	}
	if r.Speaking, err = boolField(s, "speaking"); err != nil {
		return Reading{}, err
	}
	return r, nil
}

// Struct converts q to its wire form
func (q HistoryRequest) Struct() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"start_time": structpb.NewNumberValue(float64(q.StartTime)),
		"end_time":   structpb.NewNumberValue(float64(q.EndTime)),
	}}
}

// HistoryRequestFromStruct parses a history request; both bounds are required
func HistoryRequestFromStruct(s *structpb.Struct) (HistoryRequest, error) {
	start, err := intField(s, "start_time")
	if err != nil {
		return HistoryRequest{}, err
	}
	end, err := intField(s, "end_time")
	if err != nil {
		return HistoryRequest{}, err
	}
	return HistoryRequest{StartTime: start, EndTime: end}, nil
}

// Struct converts h to its wire form
func (h History) Struct() *structpb.Struct {
	readings := make([]*structpb.Value, len(h.Readings))
	for i, r := range h.Readings {
		readings[i] = structpb.NewStructValue(r.Struct())
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"readings":      structpb.NewListValue(&structpb.ListValue{Values: readings}),
		"average_level": structpb.NewNumberValue(h.AverageLevel),
		"min_level":     structpb.NewNumberValue(h.MinLevel),
		"max_level":     structpb.NewNumberValue(h.MaxLevel),
	}}
}

// HistoryFromStruct parses a GetHistory response
func HistoryFromStruct(s *structpb.Struct) (History, error) {
	var (
		h   History
		err error
	)

	list, ok := s.GetFields()["readings"].GetKind().(*structpb.Value_ListValue)
	if !ok {
		return History{}, fmt.Errorf("field %q: expected list", "readings")
	}
	for i, v := range list.ListValue.GetValues() {
		rs := v.GetStructValue()
		if rs == nil {
			return History{}, fmt.Errorf("readings[%d]: expected struct", i)
		}
		r, err := ReadingFromStruct(rs)
		if err != nil {
			return History{}, fmt.Errorf("readings[%d]: %w", i, err)
		}
		h.Readings = append(h.Readings, r)
	}

	if h.AverageLevel, err = numberField(s, "average_level"); err != nil {
		return History{}, err
	}
	if h.MinLevel, err = numberField(s, "min_level"); err != nil {
		return History{}, err
	}
	if h.MaxLevel, err = numberField(s, "max_level"); err != nil {
		return History{}, err
	}
	return h, nil
}

func numberField(s *structpb.Struct, name string) (float64, error) {
	v, ok := s.GetFields()[name].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q: expected number", name)
	}
	return v.NumberValue, nil
}

func intField(s *structpb.Struct, name string) (int64, error) {
	f, err := numberField(s, name)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("field %q: expected integer, got %v", name, f)
	}
	return int64(f), nil
}

func stringField(s *structpb.Struct, name string) (string, error) {
	v, ok := s.GetFields()[name].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("field %q: expected string", name)
	}
	return v.StringValue, nil
}

func boolField(s *structpb.Struct, name string) (bool, error) {
	v, ok := s.GetFields()[name].GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, fmt.Errorf("field %q: expected bool", name)
	}
	return v.BoolValue, nil
}
