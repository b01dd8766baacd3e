package pipeline

import "github.com/LouYuanbo1/rczpfeed/internal/domain/entity"

// Classify 按 infostate 划分记录,各组内保持原有顺序
func Classify(records []entity.RawRecord) (open, closed, unknown []entity.RawRecord) {
	for _, r := range records {
		switch r.InfoState {
		case entity.StateOpen:
			open = append(open, r)
		case entity.StateClosed:
			closed = append(closed, r)
		default:
			unknown = append(unknown, r)
		}
	}
	return open, closed, unknown
}
