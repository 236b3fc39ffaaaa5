package game

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ErrNoWishes 导出时愿望记录为空
var ErrNoWishes = errors.New("no wishes recorded")

// TimestampLayout 愿望时间戳格式（UTC，毫秒精度）
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// 存储路径常量
const (
	journalObject   = "wishes"
	journalProperty = "journal"
)

// WishEntry 一条愿望记录
type WishEntry struct {
	ID        int       `yaml:"id"`
	Wish      string    `yaml:"wish"`
	Timestamp time.Time `yaml:"timestamp"`
}

// journalData 持久化格式
type journalData struct {
	NextID  int         `yaml:"nextId"`
	Entries []WishEntry `yaml:"entries"`
}

// WishJournal 愿望记录
//
// 每次成功放灯追加一条记录，尽力持久化到 gdata。
// gdataManager 为 nil 时只保存在内存中（降级模式）。
// 重置场景不会清空记录，只清零本次会话的计数。
type WishJournal struct {
	gdataManager *gdata.Manager
	entries      []WishEntry
	nextID       int
	sessionCount int

	now func() time.Time
}

// NewWishJournal 创建愿望记录并加载已保存的数据
//
// 参数：
//   - gdataManager: gdata 存储管理器，可为 nil（降级模式）
//
// 返回：
//   - *WishJournal: 愿望记录实例（加载失败时为空记录）
//   - error: 加载失败的原因（不影响使用）
func NewWishJournal(gdataManager *gdata.Manager) (*WishJournal, error) {
	j := &WishJournal{
		gdataManager: gdataManager,
		nextID:       1,
		now:          time.Now,
	}
	if err := j.Load(); err != nil {
		log.Printf("[WishJournal] Warning: Failed to load journal: %v (starting empty)", err)
		return j, err
	}
	return j, nil
}

// Load 从 gdata 加载记录；没有存档时保持为空
func (j *WishJournal) Load() error {
	if j.gdataManager == nil {
		return nil
	}
	if !j.gdataManager.ObjectPropExists(journalObject, journalProperty) {
		return nil
	}

	raw, err := j.gdataManager.LoadObjectProp(journalObject, journalProperty)
	if err != nil {
		return fmt.Errorf("failed to load wish journal: %w", err)
	}

	var data journalData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to unmarshal wish journal: %w", err)
	}

	j.entries = data.Entries
	j.nextID = data.NextID
	for _, e := range j.entries {
		if e.ID >= j.nextID {
			j.nextID = e.ID + 1
		}
	}
	if j.nextID < 1 {
		j.nextID = 1
	}
	log.Printf("[WishJournal] 加载 %d 条愿望记录", len(j.entries))
	return nil
}

// Save 保存记录到 gdata（降级模式下直接返回 nil）
func (j *WishJournal) Save() error {
	if j.gdataManager == nil {
		return nil
	}

	raw, err := yaml.Marshal(journalData{NextID: j.nextID, Entries: j.entries})
	if err != nil {
		return fmt.Errorf("failed to marshal wish journal: %w", err)
	}
	if err := j.gdataManager.SaveObjectProp(journalObject, journalProperty, raw); err != nil {
		return fmt.Errorf("failed to save wish journal: %w", err)
	}
	return nil
}

// Record 追加一条愿望记录并尝试保存
//
// 即使保存失败，记录也已留在内存中；返回的 error 仅用于日志。
func (j *WishJournal) Record(wish string) (WishEntry, error) {
	entry := WishEntry{
		ID:        j.nextID,
		Wish:      wish,
		Timestamp: j.now().UTC(),
	}
	j.nextID++
	j.entries = append(j.entries, entry)
	j.sessionCount++

	if err := j.Save(); err != nil {
		return entry, err
	}
	return entry, nil
}

// Entries 返回所有记录的副本
func (j *WishJournal) Entries() []WishEntry {
	out := make([]WishEntry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Count 返回记录总数
func (j *WishJournal) Count() int {
	return len(j.entries)
}

// SessionCount 返回本次会话放出的水灯数量
func (j *WishJournal) SessionCount() int {
	return j.sessionCount
}

// ResetSession 清零会话计数（不影响已保存的记录）
func (j *WishJournal) ResetSession() {
	j.sessionCount = 0
}

// WriteCSV 以 "ID,Wish,Timestamp" 格式写出所有记录
// 愿望中的换行替换为空格，引号由 csv 编码器转义
func (j *WishJournal) WriteCSV(w io.Writer) error {
	if len(j.entries) == 0 {
		return ErrNoWishes
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Wish", "Timestamp"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, e := range j.entries {
		record := []string{
			strconv.Itoa(e.ID),
			flattenLines(e.Wish),
			e.Timestamp.UTC().Format(TimestampLayout),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record %d: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV 导出记录到文件
func (j *WishJournal) ExportCSV(path string) error {
	if len(j.entries) == 0 {
		return ErrNoWishes
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := j.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	log.Printf("[WishJournal] 导出 %d 条愿望到 %s", len(j.entries), path)
	return nil
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func flattenLines(s string) string {
	return lineBreaks.Replace(s)
}
