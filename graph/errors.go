package graph

import "fmt"

// ModuleError 将失败与当时正在处理的模块路径关联
// 递归的每一层都会包一层, 因此错误链展示了从入口到失败模块的完整路径
type ModuleError struct {
	Path string
	Err  error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("module %s: %v", e.Path, e.Err)
}

func (e *ModuleError) Unwrap() error { return e.Err }

// Chain 返回错误链中所有模块路径, 从入口模块开始
func Chain(err error) []string {
	var paths []string
	for err != nil {
		if me, ok := err.(*ModuleError); ok {
			paths = append(paths, me.Path)
			err = me.Err
			continue
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return paths
}
