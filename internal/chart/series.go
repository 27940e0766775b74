package chart

import "time"

// DefaultCapacity is the number of points a series keeps.
const DefaultCapacity = 50

type Point struct {
	At    time.Time `json:"at"`
	Value float64   `json:"value"`
}

// Series is a fixed-capacity rolling window of timestamped points. When
// full, appending drops the oldest point.
type Series struct {
	Name     string
	capacity int
	points   []Point
}

func NewSeries(name string, capacity int) *Series {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Series{Name: name, capacity: capacity, points: make([]Point, 0, capacity)}
}

func (s *Series) Append(at time.Time, v float64) {
	if len(s.points) == s.capacity {
		copy(s.points, s.points[1:])
		s.points = s.points[:s.capacity-1]
	}
	s.points = append(s.points, Point{At: at, Value: v})
}

func (s *Series) Len() int      { return len(s.points) }
func (s *Series) Capacity() int { return s.capacity }

// Points returns a copy of the window, oldest first.
func (s *Series) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// Values returns the window's values, oldest first.
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Value
	}
	return out
}

// Last returns the newest point.
func (s *Series) Last() (Point, bool) {
	if len(s.points) == 0 {
		return Point{}, false
	}
	return s.points[len(s.points)-1], true
}

func (s *Series) Clear() { s.points = s.points[:0] }
