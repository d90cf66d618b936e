// Package tz converts between UTC instants exchanged with the scheduling API
// and wall-clock values shown in the study site's configured timezone.
//
// The location is always passed in explicitly; callers obtain it from
// configuration through NewConverter. ToUTC keeps the historical behaviour of
// measuring the zone offset at the current moment rather than at the converted
// wall-clock time, so a value on the other side of a DST transition from
// "now" is off by the DST delta. ToUTCExact resolves the offset at the target
// time and is the variant to migrate to.
package tz
