package seed

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"time"

	"qingjia/internal/leave"
	"qingjia/pkg/types"
)

type Submitter interface {
	Submit(ctx context.Context, sub *leave.Submission) (string, error)
}

type leaveSeed struct {
	StudentID string
	Name      string
	Reason    string
	// DaysAgo is subtracted from today to get the leave date.
	DaysAgo int
	Color   color.RGBA
}

var leaveSeeds = []leaveSeed{
	{StudentID: "2022110101", Name: "张三", Reason: "发烧，前往校医院就诊", DaysAgo: 0, Color: color.RGBA{R: 0xe5, G: 0x73, B: 0x73, A: 0xff}},
	{StudentID: "2022110102", Name: "李四", Reason: "家中有事需返乡", DaysAgo: 0, Color: color.RGBA{R: 0x64, G: 0xb5, B: 0xf6, A: 0xff}},
	{StudentID: "2022110103", Name: "王五", Reason: "参加学科竞赛", DaysAgo: 1, Color: color.RGBA{R: 0x81, G: 0xc7, B: 0x84, A: 0xff}},
	{StudentID: "2022110104", Name: "赵六", Reason: "牙科复诊", DaysAgo: 3, Color: color.RGBA{R: 0xff, G: 0xd5, B: 0x4f, A: 0xff}},
	{StudentID: "2022110105", Name: "钱七", Reason: "实习单位面试", DaysAgo: 6, Color: color.RGBA{R: 0xba, G: 0x68, B: 0xc8, A: 0xff}},
}

// SeedLeaveRequests pushes the demo requests through the real submission
// pipeline so both the bucket and the table get populated. It returns the
// number of requests submitted.
func SeedLeaveRequests(ctx context.Context, submitter Submitter) (int, error) {
	today := time.Now()

	for i, s := range leaveSeeds {
		photo, err := placeholderPNG(s.Color)
		if err != nil {
			return i, fmt.Errorf("render placeholder for %s: %w", s.StudentID, err)
		}

		_, err = submitter.Submit(ctx, &leave.Submission{
			StudentID: s.StudentID,
			Name:      s.Name,
			Reason:    s.Reason,
			LeaveDate: today.AddDate(0, 0, -s.DaysAgo).Format(types.DateLayout),
			Photo:     &leave.Photo{Filename: s.StudentID + ".png", Body: photo},
		})
		if err != nil {
			return i, fmt.Errorf("submit %s: %w", s.StudentID, err)
		}
	}

	return len(leaveSeeds), nil
}

func placeholderPNG(c color.RGBA) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
