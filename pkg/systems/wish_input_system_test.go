package systems

import (
	"testing"

	"github.com/decker502/krathong/pkg/components"
)

func newTestWishInput(maxLength int) *WishInputSystem {
	s := NewWishInputSystem(&components.WishInputComponent{MaxLength: maxLength})
	s.Open()
	return s
}

// TestWishInputEditing 测试插入、删除与光标移动
func TestWishInputEditing(t *testing.T) {
	tests := []struct {
		name       string
		ops        func(s *WishInputSystem)
		wantText   string
		wantCursor int
	}{
		{
			name:       "连续输入",
			ops:        func(s *WishInputSystem) { s.InsertText("good "); s.InsertText("luck") },
			wantText:   "good luck",
			wantCursor: 9,
		},
		{
			name:       "泰文组合字符",
			ops:        func(s *WishInputSystem) { s.InsertText("สุขภาพดี") },
			wantText:   "สุขภาพดี",
			wantCursor: len([]rune("สุขภาพดี")),
		},
		{
			name:       "过滤控制字符",
			ops:        func(s *WishInputSystem) { s.InsertText("a\x00b\x1bc") },
			wantText:   "abc",
			wantCursor: 3,
		},
		{
			name: "光标中间插入",
			ops: func(s *WishInputSystem) {
				s.InsertText("ac")
				s.MoveCursor(-1)
				s.InsertText("b")
			},
			wantText:   "abc",
			wantCursor: 2,
		},
		{
			name: "退格与删除",
			ops: func(s *WishInputSystem) {
				s.InsertText("abcd")
				s.MoveCursorTo(2)
				s.DeleteBefore()
				s.DeleteAfter()
			},
			wantText:   "ad",
			wantCursor: 1,
		},
		{
			name: "边界处删除无效",
			ops: func(s *WishInputSystem) {
				s.InsertText("ab")
				s.DeleteAfter()
				s.MoveCursorTo(-5)
				s.DeleteBefore()
			},
			wantText:   "ab",
			wantCursor: 0,
		},
		{
			name: "超出最大长度整段忽略",
			ops: func(s *WishInputSystem) {
				s.InsertText("12345678")
				s.InsertText("abc")
			},
			wantText:   "12345678",
			wantCursor: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestWishInput(10)
			tt.ops(s)
			in := s.Input()
			if in.Text != tt.wantText {
				t.Errorf("Text: got %q, want %q", in.Text, tt.wantText)
			}
			if in.CursorPosition != tt.wantCursor {
				t.Errorf("CursorPosition: got %d, want %d", in.CursorPosition, tt.wantCursor)
			}
		})
	}
}

// TestWishInputSubmittedTrims 提交文本去掉首尾空白
func TestWishInputSubmittedTrims(t *testing.T) {
	s := newTestWishInput(0)
	s.InsertText("   ")
	if got := s.Submitted(); got != "" {
		t.Errorf("Submitted: got %q, want empty", got)
	}
	s.InsertText(" ขอให้รวย ")
	if got := s.Submitted(); got != "ขอให้รวย" {
		t.Errorf("Submitted: got %q, want %q", got, "ขอให้รวย")
	}
}

// TestWishInputOpenClose 打开时清空并获取焦点，关闭时失去焦点
func TestWishInputOpenClose(t *testing.T) {
	s := newTestWishInput(0)
	s.InsertText("draft")
	s.Close()
	if s.Input().IsFocused || s.Input().Text != "" {
		t.Errorf("after Close: focused=%v text=%q", s.Input().IsFocused, s.Input().Text)
	}

	// 未获得焦点时 Update 不产生动作
	if action, _ := s.Update(0.016); action != WishInputNone {
		t.Errorf("Update on closed input: got action %v", action)
	}

	s.Open()
	if !s.Input().IsFocused || !s.Input().CursorVisible {
		t.Error("Open should focus the input and show the cursor")
	}
}
