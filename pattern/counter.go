package pattern

import (
	M "seqminer/model"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CountSupport counts the sequences of db containing p by scanning every
// sequence. It is the reference the vertical joins are checked against.
func CountSupport(db M.Database, p M.Pattern) int {
	count := 0
	for _, seq := range db {
		if p.ContainedIn(seq) {
			count++
		}
	}
	return count
}

// VerifyResults recounts the support of every result with a full scan and
// fails on the first mismatch or infrequent result.
func VerifyResults(db M.Database, results []M.Result, minSupport int) error {
	for _, r := range results {
		count := CountSupport(db, r.Pattern)
		if count != r.Support {
			log.WithFields(log.Fields{"pattern": r.Pattern.String(),
				"support": r.Support, "count": count}).Error("Support mismatch.")
			return errors.Errorf("support mismatch for %s: reported %d, counted %d",
				r.Pattern, r.Support, count)
		}
		if count < minSupport {
			return errors.Errorf("pattern %s below minimum support: %d < %d",
				r.Pattern, count, minSupport)
		}
		if r.Length != r.Pattern.Length() {
			return errors.Errorf("length mismatch for %s: reported %d", r.Pattern, r.Length)
		}
	}
	return nil
}
