package leave

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"qingjia/pkg/types"
)

const fakeBaseURL = "https://leave-test.cos.ap-guangzhou.myqcloud.com"

type fakeRecords struct {
	records   []*types.LeaveRecord
	nextID    int64
	createErr error
	queryErr  error
	queries   int
}

func (f *fakeRecords) CreateLeaveRecord(_ context.Context, record *types.LeaveRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	record.ID = f.nextID
	record.CreateTime = time.Now()
	f.records = append(f.records, record)
	return nil
}

func (f *fakeRecords) LeaveRecordsBetween(_ context.Context, start, end time.Time) ([]*types.LeaveRecord, error) {
	f.queries++
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	out := make([]*types.LeaveRecord, 0)
	for _, r := range f.records {
		if r.LeaveDate.Before(start) || r.LeaveDate.After(end) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LeaveDate.After(out[j].LeaveDate) })
	return out, nil
}

type fakePhotos struct {
	objects  map[string][]byte
	failKeys map[string]bool
	putErr   error
	puts     int
}

func newFakePhotos() *fakePhotos {
	return &fakePhotos{objects: map[string][]byte{}, failKeys: map[string]bool{}}
}

func (f *fakePhotos) PutPhoto(_ context.Context, key string, body []byte, _ string) error {
	f.puts++
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = body
	return nil
}

func (f *fakePhotos) GetPhoto(_ context.Context, key string) ([]byte, error) {
	if f.failKeys[key] {
		return nil, errors.New("simulated storage failure")
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

func (f *fakePhotos) PublicURL(key string) string {
	return fakeBaseURL + "/" + key
}

func (f *fakePhotos) KeyFromURL(photoURL string) (string, error) {
	if !strings.HasPrefix(photoURL, fakeBaseURL+"/") {
		return "", errors.New("foreign url")
	}
	return strings.TrimPrefix(photoURL, fakeBaseURL+"/"), nil
}

func mustDate(v string) time.Time {
	d, err := time.Parse(types.DateLayout, v)
	if err != nil {
		panic(err)
	}
	return d
}
