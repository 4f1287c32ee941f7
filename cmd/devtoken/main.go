// devtoken emite un JWT de desarrollo (el login queda fuera de esta API).
//
// Uso: go run ./cmd/devtoken -user u-1 -sede <uuid> -role admin
// Lee JWT_SECRET, JWT_ISSUER y JWT_EXPIRATION_MINUTES de la misma configuración que la API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/pkg/config"
	"github.com/jhoicas/inventario-sedes/pkg/jwt"
)

func main() {
	userID := flag.String("user", "dev-user", "ID del usuario")
	sedeID := flag.String("sede", "", "ID de la sede del usuario")
	role := flag.String("role", entity.RoleAdmin, "admin | bodeguero | vendedor")
	flag.Parse()

	switch *role {
	case entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor:
	default:
		fmt.Fprintf(os.Stderr, "rol inválido: %s\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	token, err := jwt.Generate(cfg.JWT.Secret, *userID, *sedeID, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
