package orbgeom

import "fmt"

const mjdOffset = 2400000.5

// MJDToJD converts a modified Julian date to a Julian date.
func MJDToJD(mjd float64) float64 {
	return mjd + mjdOffset
}

// JDToMJD converts a Julian date to a modified Julian date.
func JDToMJD(jd float64) float64 {
	return jd - mjdOffset
}

// PositionSample is a position (meters) tagged with a Julian date.
type PositionSample struct {
	JD  float64
	Pos []float64
}

// AttitudeSample is an orientation tagged with a Julian date.
type AttitudeSample struct {
	JD  float64
	Att Quaternion
}

// PositionTrack is a time-ordered sequence of position samples. Tracks are
// produced by an external telemetry parser or propagator; the engine only
// ever reads them.
type PositionTrack []PositionSample

// AttitudeTrack is a time-ordered sequence of attitude samples.
type AttitudeTrack []AttitudeSample

// NewPositionTrack checks that the samples are sorted by ascending date.
func NewPositionTrack(samples []PositionSample) (PositionTrack, error) {
	for i := 1; i < len(samples); i++ {
		if samples[i].JD < samples[i-1].JD {
			return nil, fmt.Errorf("sample %d (JD %f) is earlier than its predecessor", i, samples[i].JD)
		}
	}
	return PositionTrack(samples), nil
}

// NewAttitudeTrack checks that the samples are sorted by ascending date.
func NewAttitudeTrack(samples []AttitudeSample) (AttitudeTrack, error) {
	for i := 1; i < len(samples); i++ {
		if samples[i].JD < samples[i-1].JD {
			return nil, fmt.Errorf("sample %d (JD %f) is earlier than its predecessor", i, samples[i].JD)
		}
	}
	return AttitudeTrack(samples), nil
}

// Empty returns whether this track holds no samples. Interpolate must not be
// called on an empty track.
func (t PositionTrack) Empty() bool {
	return len(t) == 0
}

// Empty returns whether this track holds no samples.
func (t AttitudeTrack) Empty() bool {
	return len(t) == 0
}

// bracket finds the adjacent pair of dates around jd and the interpolation
// fraction between them. Dates outside the track clamp to the edges. Tracks
// are short (an epoch grid of tens of points), so a linear scan is fine; ties
// on equal dates resolve to the earliest sample.
func bracket(dates []float64, jd float64) (i, j int, f float64) {
	last := len(dates) - 1
	if jd <= dates[0] {
		return 0, 0, 0
	}
	if jd >= dates[last] {
		return last, last, 0
	}
	for k := 0; k < last; k++ {
		if dates[k] <= jd && jd <= dates[k+1] {
			dt := dates[k+1] - dates[k]
			if dt == 0 {
				return k, k + 1, 0
			}
			return k, k + 1, (jd - dates[k]) / dt
		}
	}
	// Unreachable given the sorted precondition.
	return last, last, 0
}

// Interpolate returns the linearly interpolated position at jd, clamping to
// the first and last samples outside the track range.
func (t PositionTrack) Interpolate(jd float64) []float64 {
	dates := make([]float64, len(t))
	for k, s := range t {
		dates[k] = s.JD
	}
	i, j, f := bracket(dates, jd)
	a, b := t[i].Pos, t[j].Pos
	return []float64{
		a[0] + f*(b[0]-a[0]),
		a[1] + f*(b[1]-a[1]),
		a[2] + f*(b[2]-a[2]),
	}
}

// Interpolate returns the spherically interpolated attitude at jd, clamping
// to the first and last samples outside the track range.
func (t AttitudeTrack) Interpolate(jd float64) Quaternion {
	dates := make([]float64, len(t))
	for k, s := range t {
		dates[k] = s.JD
	}
	i, j, f := bracket(dates, jd)
	if i == j {
		return t[i].Att.Normalized()
	}
	return t[i].Att.Slerp(t[j].Att, f)
}
