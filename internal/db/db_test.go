package db

import (
	"testing"

	"github.com/pazarmk/pazar-backend/internal/config"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{
			name: "plain host and port",
			cfg:  config.Config{DBUser: "app", DBPassword: "pw", DBHost: "127.0.0.1", DBPort: "3306", DBName: "pazar"},
			want: "app:pw@tcp(127.0.0.1:3306)/pazar?charset=utf8mb4&parseTime=True&loc=Local",
		},
		{
			name: "cloud sql instance wins",
			cfg:  config.Config{DBUser: "app", DBPassword: "pw", DBHost: "127.0.0.1", DBPort: "3306", DBName: "pazar", InstanceConnectionName: "proj:region:inst"},
			want: "app:pw@unix(/cloudsql/proj:region:inst)/pazar?charset=utf8mb4&parseTime=True&loc=Local",
		},
		{
			name: "host already wrapped in tcp",
			cfg:  config.Config{DBUser: "app", DBPassword: "pw", DBHost: "tcp(db:3307)", DBName: "pazar"},
			want: "app:pw@tcp(db:3307)/pazar?charset=utf8mb4&parseTime=True&loc=Local",
		},
		{
			name: "socket path",
			cfg:  config.Config{DBUser: "app", DBPassword: "pw", DBHost: "/var/run/mysqld/mysqld.sock", DBName: "pazar"},
			want: "app:pw@unix(/var/run/mysqld/mysqld.sock)/pazar?charset=utf8mb4&parseTime=True&loc=Local",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildDSN(&tt.cfg); got != tt.want {
				t.Errorf("BuildDSN() = %q, want %q", got, tt.want)
			}
		})
	}
}
