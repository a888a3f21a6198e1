// Package mongodb implements the repository interfaces on MongoDB.
package mongodb

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/spec-kit/vetclinic-service/internal/domain"
	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

func objectID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, apperrors.ErrInvalidID
	}
	return oid, nil
}

func objectIDs(ids []string) ([]bson.ObjectID, error) {
	out := make([]bson.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := objectID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, oid)
	}
	return out, nil
}

func hexIDs(ids []bson.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, oid := range ids {
		out = append(out, oid.Hex())
	}
	return out
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		err = apperrors.ErrRecordNotFound
	}
	return oops.With("operation", op).Wrap(err)
}

// now is truncated to the millisecond precision BSON dates keep.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// listSpec describes how a collection is searched, filtered and sorted.
type listSpec struct {
	searchFields []string
	dateField    string
	sortFields   map[string]string
}

func (s listSpec) filter(opts domain.ListOptions) bson.M {
	filter := bson.M{}

	if search := strings.TrimSpace(opts.Search); search != "" {
		regex := bson.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		ors := make(bson.A, 0, len(s.searchFields))
		for _, field := range s.searchFields {
			ors = append(ors, bson.M{field: regex})
		}
		filter["$or"] = ors
	}

	dateRange := bson.M{}
	if opts.StartDate != nil {
		dateRange["$gte"] = *opts.StartDate
	}
	if opts.EndDate != nil {
		dateRange["$lte"] = *opts.EndDate
	}
	if len(dateRange) > 0 {
		filter[s.dateField] = dateRange
	}
	return filter
}

func (s listSpec) findOptions(opts domain.ListOptions) *options.FindOptionsBuilder {
	field, ok := s.sortFields[opts.SortBy]
	if !ok {
		field = "createdAt"
	}
	order := -1
	if opts.SortOrder == domain.SortAsc {
		order = 1
	}
	return options.Find().
		SetSort(bson.D{{Key: field, Value: order}, {Key: "_id", Value: order}}).
		SetSkip(int64(opts.Offset())).
		SetLimit(int64(opts.Limit))
}
