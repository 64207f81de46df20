package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Funeraria Peñalolén & Hijos": "funeraria-penalolen-hijos",
		"  Parque del Recuerdo  ":     "parque-del-recuerdo",
		"Cómo acompañar el duelo?":    "como-acompanar-el-duelo",
		"San José 2":                  "san-jose-2",
		"---":                         "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Make(in), in)
	}
}
