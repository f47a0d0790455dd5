// Package timezone keeps every calendar computation of the property in one location.
//
// Stays are whole days: check-in and check-out dates are parsed with ParseDate and
// compared after TruncateDay, so a booking made late at night still lands on the
// hotel's calendar day rather than the server's.
//
//	today := timezone.Today()
//	checkin, err := timezone.ParseDate("2024-03-01")
//	stamp := timezone.Format(booking.CreatedAt, constant.DateFormat)
//
// The location comes from APP_TIMEZONE (an IANA name such as "America/Sao_Paulo")
// and is loaded once at package initialization. Unknown names fall back to UTC.
package timezone
