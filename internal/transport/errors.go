package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrConnect 建立 TCP 连接失败（超时/拒绝）
	ErrConnect = errors.New("transport: connect failed")
	// ErrIO 已建立连接上的写失败
	ErrIO = errors.New("transport: io failed")
	// ErrUnsupportedCommand 命令无编码，拒绝发送仅有帧头的空帧
	ErrUnsupportedCommand = errors.New("transport: command has no encoding")
)

// ConnectError 连接错误，附带目标地址
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Addr, e.Err)
}

// Unwrap 同时暴露 ErrConnect 与底层网络错误
func (e *ConnectError) Unwrap() []error { return []error{ErrConnect, e.Err} }

// IOError 读写错误
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }
