// hidtoken emite el token que el demonio de escáneres presenta en los endpoints HID.
//
// Uso: go run ./cmd/hidtoken --sender barcode_reader [--workbench 3] [--exp 525600]
// El secreto y el emisor del token salen de HID_JWT_SECRET y HID_JWT_ISSUER salvo que
// se pasen por flag. --workbench 0 emite un token válido en cualquier estación.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/jhoicas/workbench-api/internal/application/hid"
	"github.com/jhoicas/workbench-api/pkg/config"
	pkgjwt "github.com/jhoicas/workbench-api/pkg/jwt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}

	secret := pflag.String("secret", cfg.HID.JWTSecret, "secreto HS256 compartido con la estación")
	issuer := pflag.String("issuer", cfg.HID.Issuer, "emisor (iss) del token")
	sender := pflag.StringP("sender", "s", "", "lector: "+hid.SenderBarcode+" | "+hid.SenderRFID)
	workbench := pflag.IntP("workbench", "w", cfg.Workbench.Number, "estación destino (0 = todas)")
	exp := pflag.Int("exp", 60*24*365, "vigencia en minutos")
	pflag.Parse()

	switch *sender {
	case hid.SenderBarcode, hid.SenderRFID:
	default:
		fmt.Fprintf(os.Stderr, "--sender debe ser %s o %s\n", hid.SenderBarcode, hid.SenderRFID)
		os.Exit(2)
	}

	token, err := pkgjwt.Generate(*secret, *sender, *workbench, *issuer, *exp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
