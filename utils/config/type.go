package config

import "path/filepath"

// SignalPlacement 路段上的一个信号灯
// 功能：描述信号灯的逻辑类型、所属信控组以及在路段上的位置
type SignalPlacement struct {
	Type     string  `yaml:"type"`     // 逻辑类型，与信控组相位中的键对应
	Group    string  `yaml:"group"`    // 所属信控组ID
	Position float64 `yaml:"position"` // 距路段起点的距离（m）
}

// Road 路段配置
// 功能：定义信号灯挂接的路段，路网本身只以ID和长度的形式出现
type Road struct {
	ID            int32             `yaml:"id"`
	Name          string            `yaml:"name,omitempty"`
	Length        float64           `yaml:"length"`
	TrafficLights []SignalPlacement `yaml:"traffic_lights,omitempty"`
}

// Phase 信控相位
// 功能：一个相位的持续时间以及该相位下各逻辑类型信号灯的状态
// 说明：状态以名称书写（green、green_red、red、red_green）
type Phase struct {
	Duration float64           `yaml:"duration"` // 相位时长（s）
	States   map[string]string `yaml:"states"`   // 逻辑类型->状态名
}

// TrafficLightGroup 信控组配置
// 功能：一组共享相位方案的信号灯
type TrafficLightGroup struct {
	ID         string  `yaml:"id"`
	JunctionID int32   `yaml:"junction_id,omitempty"` // RPC接口中使用的路口ID
	Phases     []Phase `yaml:"phases"`
}

// Input 指定模拟器所有输入数据的配置项
type Input struct {
	Roads              []Road              `yaml:"roads"`
	TrafficLightGroups []TrafficLightGroup `yaml:"traffic_light_groups"`
}

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
// 功能：定义仿真时间控制参数
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每步的时间间隔
}

// Trigger 手动切换相位的时刻
// 功能：在指定步让信控组进入下一相位，效果与点击组内信号灯相同
type Trigger struct {
	Step  int32  `yaml:"step"`  // 触发的步数（与control.step.start同一计数）
	Group string `yaml:"group"` // 信控组ID
}

// Control 模拟器控制配置
type Control struct {
	Step         ControlStep `yaml:"step"`
	RandomOffset bool        `yaml:"random_offset,omitempty"` // 信控组初始相位随机偏移，否则从第一个相位开始
	Seed         uint64      `yaml:"seed,omitempty"`          // 随机偏移使用的随机数种子
	Triggers     []Trigger   `yaml:"triggers,omitempty"`      // 手动切换相位
}

// MongoPath 输出到MongoDB的位置
type MongoPath struct {
	URI       string `yaml:"uri"`
	DB        string `yaml:"db"`
	Col       string `yaml:"col"`
	BatchSize int    `yaml:"batch_size,omitempty"` // 批量写入条数，默认100
}

// GetDb 获取数据库名
func (p MongoPath) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
func (p MongoPath) GetColl() string {
	return p.Col
}

// Output 输出配置
// 功能：定义信号灯记录文件的位置和采样间隔
type Output struct {
	Dir                  string     `yaml:"dir"`                    // 输出目录
	Project              string     `yaml:"project"`                // 项目名，作为输出文件名前缀
	TrafficLightInterval int64      `yaml:"traffic_light_interval"` // 信号灯记录的采样间隔（步）
	Mongo                *MongoPath `yaml:"mongo,omitempty"`        // 可选的MongoDB采样归档
}

// TrafficLightLogPath 信号灯记录文件路径
// 返回：{dir}/{project}.tl_log.csv
func (o Output) TrafficLightLogPath() string {
	return filepath.Join(o.Dir, o.Project+".tl_log.csv")
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
// 说明：包含输入、控制、输出等所有配置项
type Config struct {
	Input   Input   `yaml:"input"`   // 输入
	Control Control `yaml:"control"` // 模拟过程控制
	Output  *Output `yaml:"output,omitempty"`
}
