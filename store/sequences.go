package store

import (
	"encoding/csv"
	"io"
	"os"
	M "seqminer/model"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var ErrMalformedRow = errors.New("malformed sequence row")

// ReadDatabase parses rows of sid,eid,item,item,... into a database. Items
// are trimmed and empty cells skipped. A (sid, eid) repeated on a later row
// takes that row's item-set. A first row whose sid is not an integer is read
// as a header. Lines starting with # are ignored.
func ReadDatabase(r io.Reader) (M.Database, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	reader.ReuseRecord = true

	db := M.NewDatabase()
	numRows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read csv")
		}
		numRows++

		line, _ := reader.FieldPos(0)
		if len(record) < 2 {
			return nil, errors.Wrapf(ErrMalformedRow, "line %d: want sid,eid,items", line)
		}

		sid, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		if err != nil {
			if numRows == 1 {
				log.WithField("header", strings.Join(record, ",")).Debug("Skipping header row.")
				continue
			}
			return nil, errors.Wrapf(ErrMalformedRow, "line %d: sid %q", line, record[0])
		}
		eid, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedRow, "line %d: eid %q", line, record[1])
		}

		db.Set(sid, eid, M.NewItemsetFromStrings(record[2:])...)
	}
	return db, nil
}

// ReadDatabaseFromFile opens path and reads it with ReadDatabase.
func ReadDatabaseFromFile(path string) (M.Database, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	db, err := ReadDatabase(file)
	if err != nil {
		return nil, errors.Wrapf(err, "file %s", path)
	}
	log.WithFields(log.Fields{
		"file":      path,
		"sequences": db.NumSequences(),
		"events":    db.NumEvents(),
	}).Info("Read sequence database.")
	return db, nil
}
