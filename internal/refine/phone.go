package refine

import (
	"strings"

	"github.com/jonathan/resume-refiner/internal/types"
)

// NormalizePhone formats the session's phone number for countryCode and remembers the
// country for later revisions. A number that cannot be formatted is kept as is.
func (s *Service) NormalizePhone(sessionID, countryCode string) (types.ParsedCvData, error) {
	country := strings.ToUpper(strings.TrimSpace(countryCode))
	if strings.TrimSpace(sessionID) == "" || len(country) != 2 {
		return types.ParsedCvData{}, invalid("Session ID and a two-letter country code are required")
	}

	sess, err := s.sessions.Update(sessionID, func(sess *types.Session) {
		data := sess.Data.Clone()
		data.Phone = s.phones.Format(data.Phone, country)
		sess.Data = data
		sess.CountryCode = country
	})
	if err != nil {
		return types.ParsedCvData{}, notFound(sessionID, err)
	}
	return sess.Data, nil
}
