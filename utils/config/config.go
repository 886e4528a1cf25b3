package config

import (
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v2"
)

var (
	ErrNoStep     = errors.New("control.step.interval must be positive and finite")
	ErrNoInterval = errors.New("output.traffic_light_interval must be positive")
)

// RuntimeConfig 运行时配置
// 功能：存储仿真运行时的配置信息
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
}

// NewRuntimeConfig 根据配置初始化全局变量
// 功能：创建运行时配置对象
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{}

	rc.All = config
	rc.C = config.Control

	return rc
}

// Parse 解析YAML配置
// 功能：严格模式解析配置文件内容，并检查基本的控制参数
// 参数：data-YAML文件内容
// 返回：配置对象与错误信息
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return c, fmt.Errorf("config file load err: %w", err)
	}
	dt := c.Control.Step.Interval
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return c, ErrNoStep
	}
	if c.Output != nil && c.Output.TrafficLightInterval <= 0 {
		return c, fmt.Errorf("%w: got %d", ErrNoInterval, c.Output.TrafficLightInterval)
	}
	return c, nil
}
