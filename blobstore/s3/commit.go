package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/hupe1980/tensoralg/blobstore"
)

// ErrConcurrentModification is returned by CommitStore.Put when another
// writer committed the same version first.
var ErrConcurrentModification = errors.New("s3: concurrent modification")

// DDBClient is the subset of the DynamoDB API the commit store uses.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

var _ DDBClient = (*dynamodb.Client)(nil)

// Table attributes.
const (
	attrSnapshot = "snapshot" // partition key: namespace + "#" + name
	attrVersion  = "version"  // sort key
	attrObject   = "object"
)

// CommitStore keeps every Put of a name as an immutable version. Objects are
// written to the inner store under a unique key, then committed by a
// conditional PutItem on (snapshot, version). Open reads the latest version.
//
// Table schema:
//
//	aws dynamodb create-table \
//	  --table-name tensoralg-commits \
//	  --attribute-definitions AttributeName=snapshot,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=snapshot,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type CommitStore struct {
	inner     blobstore.Store
	ddb       DDBClient
	table     string
	namespace string
}

var _ blobstore.Store = (*CommitStore)(nil)

// NewCommitStore wraps inner. namespace separates stores sharing a table,
// typically the "s3://bucket/prefix" of inner.
func NewCommitStore(inner blobstore.Store, ddb DDBClient, table, namespace string) *CommitStore {
	return &CommitStore{inner: inner, ddb: ddb, table: table, namespace: namespace}
}

func (s *CommitStore) pk(name string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: s.namespace + "#" + name}
}

// objectName is name@<version>-<uuid>; the uuid keeps losing writers from
// clobbering the winner's object.
func objectName(name string, version uint64) string {
	return fmt.Sprintf("%s@%020d-%s", name, version, uuid.NewString())
}

func logicalName(object string) (string, bool) {
	i := strings.LastIndexByte(object, '@')
	if i <= 0 {
		return "", false
	}
	return object[:i], true
}

type commit struct {
	version uint64
	object  string
}

func parseCommit(item map[string]types.AttributeValue) (commit, error) {
	v, ok := item[attrVersion].(*types.AttributeValueMemberN)
	if !ok {
		return commit{}, errors.New("s3: commit item without version")
	}
	o, ok := item[attrObject].(*types.AttributeValueMemberS)
	if !ok {
		return commit{}, errors.New("s3: commit item without object")
	}
	version, err := strconv.ParseUint(v.Value, 10, 64)
	if err != nil {
		return commit{}, fmt.Errorf("s3: commit version: %w", err)
	}
	return commit{version: version, object: o.Value}, nil
}

func (s *CommitStore) latest(ctx context.Context, name string) (commit, bool, error) {
	resp, err := s.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String(attrSnapshot + " = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": s.pk(name),
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
		ConsistentRead:   aws.Bool(true),
	})
	if err != nil {
		return commit{}, false, fmt.Errorf("s3: query commits for %q: %w", name, err)
	}
	if len(resp.Items) == 0 {
		return commit{}, false, nil
	}
	c, err := parseCommit(resp.Items[0])
	return c, err == nil, err
}

func (s *CommitStore) commits(ctx context.Context, name string) ([]commit, error) {
	var (
		out   []commit
		start map[string]types.AttributeValue
	)
	for {
		resp, err := s.ddb.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.table),
			KeyConditionExpression: aws.String(attrSnapshot + " = :pk"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": s.pk(name),
			},
			ExclusiveStartKey: start,
			ConsistentRead:    aws.Bool(true),
		})
		if err != nil {
			return nil, fmt.Errorf("s3: query commits for %q: %w", name, err)
		}
		for _, item := range resp.Items {
			c, err := parseCommit(item)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		if len(resp.LastEvaluatedKey) == 0 {
			break
		}
		start = resp.LastEvaluatedKey
	}
	slices.SortFunc(out, func(a, b commit) int { return compareUint(a.version, b.version) })
	return out, nil
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Open opens the latest committed version of name.
func (s *CommitStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	c, ok, err := s.latest(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, blobstore.ErrNotFound
	}
	return s.inner.Open(ctx, c.object)
}

// OpenVersion opens a specific committed version of name.
func (s *CommitStore) OpenVersion(ctx context.Context, name string, version uint64) (blobstore.Blob, error) {
	resp, err := s.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			attrSnapshot: s.pk(name),
			attrVersion:  &types.AttributeValueMemberN{Value: strconv.FormatUint(version, 10)},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("s3: get commit %q v%d: %w", name, version, err)
	}
	if len(resp.Item) == 0 {
		return nil, blobstore.ErrNotFound
	}
	c, err := parseCommit(resp.Item)
	if err != nil {
		return nil, err
	}
	return s.inner.Open(ctx, c.object)
}

// Versions returns the committed versions of name in ascending order.
func (s *CommitStore) Versions(ctx context.Context, name string) ([]uint64, error) {
	cs, err := s.commits(ctx, name)
	if err != nil {
		return nil, err
	}
	out := make([]uint64, len(cs))
	for i, c := range cs {
		out[i] = c.version
	}
	return out, nil
}

// Put writes data as the next version of name. It returns
// ErrConcurrentModification if another writer committed that version first;
// the caller may retry.
func (s *CommitStore) Put(ctx context.Context, name string, data []byte) error {
	if name == "" || strings.ContainsRune(name, '@') {
		return blobstore.ErrInvalidName
	}

	cur, _, err := s.latest(ctx, name)
	if err != nil {
		return err
	}
	next := cur.version + 1
	object := objectName(name, next)

	if err := s.inner.Put(ctx, object, data); err != nil {
		return err
	}

	_, err = s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item: map[string]types.AttributeValue{
			attrSnapshot: s.pk(name),
			attrVersion:  &types.AttributeValueMemberN{Value: strconv.FormatUint(next, 10)},
			attrObject:   &types.AttributeValueMemberS{Value: object},
		},
		ConditionExpression: aws.String("attribute_not_exists(" + attrVersion + ")"),
	})
	if err != nil {
		_ = s.inner.Delete(ctx, object)

		var cond *types.ConditionalCheckFailedException
		if errors.As(err, &cond) {
			return fmt.Errorf("%w: %q v%d", ErrConcurrentModification, name, next)
		}
		return fmt.Errorf("s3: commit %q v%d: %w", name, next, err)
	}
	return nil
}

// Create buffers the blob and commits it on Close.
func (s *CommitStore) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	if name == "" || strings.ContainsRune(name, '@') {
		return nil, blobstore.ErrInvalidName
	}
	return &commitWriter{ctx: ctx, store: s, name: name}, nil
}

// Delete removes every version of name.
func (s *CommitStore) Delete(ctx context.Context, name string) error {
	cs, err := s.commits(ctx, name)
	if err != nil {
		return err
	}
	for _, c := range cs {
		_, err := s.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.table),
			Key: map[string]types.AttributeValue{
				attrSnapshot: s.pk(name),
				attrVersion:  &types.AttributeValueMemberN{Value: strconv.FormatUint(c.version, 10)},
			},
		})
		if err != nil {
			return fmt.Errorf("s3: delete commit %q v%d: %w", name, c.version, err)
		}
		if err := s.inner.Delete(ctx, c.object); err != nil {
			return err
		}
	}
	return nil
}

// List returns the names with at least one stored version.
func (s *CommitStore) List(ctx context.Context, prefix string) ([]string, error) {
	objects, err := s.inner.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(objects))
	for _, o := range objects {
		if name, ok := logicalName(o); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

type commitWriter struct {
	ctx    context.Context
	store  *CommitStore
	name   string
	buf    bytes.Buffer
	closed atomic.Bool
}

func (w *commitWriter) Write(p []byte) (int, error) {
	if w.closed.Load() {
		return 0, io.ErrClosedPipe
	}
	return w.buf.Write(p)
}

func (w *commitWriter) Close() error {
	if !w.closed.CompareAndSwap(false, true) {
		return io.ErrClosedPipe
	}
	return w.store.Put(w.ctx, w.name, w.buf.Bytes())
}

func (w *commitWriter) Sync() error { return nil }
