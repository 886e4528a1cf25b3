package container

// SetOnce 只允许赋值一次的值
// 功能：显式区分“未设置”和“已设置”两种状态，避免使用NaN、nil等哨兵值
// 说明：零值即为未设置状态，可直接嵌入结构体使用
type SetOnce[T any] struct {
	value T
	ok    bool
}

// Get 获取值
// 返回：值与是否已设置，未设置时返回T的零值和false
func (o *SetOnce[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsSet 是否已设置
func (o *SetOnce[T]) IsSet() bool {
	return o.ok
}

// Set 设置值
// 功能：首次调用时写入值，之后的调用不会修改已有值
// 返回：true表示本次写入成功，false表示此前已设置
func (o *SetOnce[T]) Set(v T) bool {
	if o.ok {
		return false
	}
	o.value = v
	o.ok = true
	return true
}
