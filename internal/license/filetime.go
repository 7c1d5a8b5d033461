package license

import "time"

// Windows file times count 100-nanosecond intervals since 1601-01-01 UTC.
const ticksPerSecond = 10_000_000

var fileTimeEpoch = time.Date(1601, time.January, 1, 0, 0, 0, 0, time.UTC)

// fileTimeToUTC converts a Windows file time to a UTC time.Time.
func fileTimeToUTC(ft int64) time.Time {
	secs := ft / ticksPerSecond
	nsec := (ft % ticksPerSecond) * 100
	return fileTimeEpoch.Add(time.Duration(secs)*time.Second + time.Duration(nsec)).UTC()
}

// utcToFileTime is the inverse of fileTimeToUTC.
func utcToFileTime(t time.Time) int64 {
	d := t.UTC().Sub(fileTimeEpoch)
	return d.Nanoseconds() / 100
}
