package global

import (
	"github.com/haierkeys/note-share-service/pkg/fileurl"
)

var (
	// 程序执行目录
	ROOT string
	Name string = "Note Share Service"
	// 版本信息，由构建时注入
	Version   string = "0.1.0"
	GitTag    string = "2000.01.01.release"
	BuildTime string = "2000-01-01T00:00:00+0800"
)

func init() {

	filename := fileurl.GetExePath()
	ROOT = filename + "/"

}
