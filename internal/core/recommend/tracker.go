package recommend

// Tracker 生成序號。每次搜尋取得一個遞增的序號，
// 只有序號仍是最新的結果才會被套用。
// Tracker 本身不加鎖，由持有者（工作階段儲存）序列化存取。
type Tracker struct {
	Latest uint64 `json:"latest"`
}

// Begin 發出新的序號
func (t *Tracker) Begin() uint64 {
	t.Latest++
	return t.Latest
}

// Current 目前最新的序號
func (t *Tracker) Current() uint64 {
	return t.Latest
}

// Apply 序號仍是最新時執行 fn 並回傳 true，否則丟棄
func (t *Tracker) Apply(token uint64, fn func()) bool {
	if token != t.Latest {
		return false
	}
	fn()
	return true
}
